package request

import (
	"errors"
	"strings"
)

type PreCheckRequest struct {
	Message string `json:"message"`
}

func (r *PreCheckRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message is required")
	}
	return nil
}
