package backend

import (
	"encoding/json"
	"strings"
)

// Frame is one detected scene as returned by POST /api/analyze_frames.
// Only Data is guaranteed; the remaining fields are sent by newer backends.
type Frame struct {
	Data       string   `json:"data"`
	Index      int      `json:"index,omitempty"`
	Timestamp  *float64 `json:"timestamp,omitempty"`
	ChangeRate float64  `json:"change_rate,omitempty"`
	Clarity    float64  `json:"clarity,omitempty"`
}

// Text is a metadata value the backend may send as a string, a number or null.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(raw)
	return nil
}

// VideoInfo is the metadata block of POST /api/analyze.
type VideoInfo struct {
	Title       Text `json:"title"`
	Author      Text `json:"author"`
	PublishDate Text `json:"publish_date"`
	Duration    Text `json:"duration"`
	Views       Text `json:"views"`
	FileSize    Text `json:"filesize"`
}

type urlRequest struct {
	URL string `json:"url"`
}

type framesRequest struct {
	Frames []string `json:"frames"`
}

type framesResponse struct {
	Success bool    `json:"success"`
	Frames  []Frame `json:"frames"`
	Error   string  `json:"error,omitempty"`
}

type infoResponse struct {
	Success bool      `json:"success"`
	Data    VideoInfo `json:"data"`
	Error   string    `json:"error,omitempty"`
}

type downloadResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"file_name"`
	Error    string `json:"error,omitempty"`
}
