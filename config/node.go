package config

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Node struct {
	Endpoint         string   `json:"Endpoint"`
	Permanode        string   `json:"Permanode"`
	Concurrency      int      `json:"Concurrency"`
	RequestTimeout   Duration `json:"RequestTimeout"`
	ProgressInterval uint64   `json:"ProgressInterval"`
}

func defaultNode() Node {
	return Node{
		Endpoint:         "http://127.0.0.1:14265",
		Concurrency:      1,
		RequestTimeout:   Duration(30 * time.Second),
		ProgressInterval: 1000,
	}
}

// Duration reads as a string like "30s" in json.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
