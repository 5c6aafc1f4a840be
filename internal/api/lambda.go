package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/qluke/genshin-builds/internal/materials"
	"github.com/qluke/genshin-builds/internal/profile"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// MaterialsRequest is the Function URL payload. Omitted bounds take the
// full default range.
type MaterialsRequest struct {
	Character string `json:"character"`
	Lang      string `json:"lang"`
	AscMin    *int   `json:"ascMin"`
	AscMax    *int   `json:"ascMax"`
	TalentMin *int   `json:"talentMin"`
	TalentMax *int   `json:"talentMax"`
}

func (req MaterialsRequest) Range() materials.Range {
	r := materials.DefaultRange()
	for _, b := range []struct {
		v   *int
		dst *int
	}{
		{req.AscMin, &r.AscensionMin},
		{req.AscMax, &r.AscensionMax},
		{req.TalentMin, &r.TalentMin},
		{req.TalentMax, &r.TalentMax},
	} {
		if b.v != nil {
			*b.dst = *b.v
		}
	}
	return r
}

// MaterialsFunction serves material totals as a Lambda Function URL handler.
func (h *Handler) MaterialsFunction(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req MaterialsRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	req.Character = strings.TrimSpace(req.Character)
	if req.Character == "" {
		return errResp(http.StatusBadRequest, "missing character")
	}
	if strings.TrimSpace(req.Lang) == "" {
		req.Lang = "en"
	}

	totals, err := h.Svc.Materials(req.Lang, req.Character, req.Range())
	if err != nil {
		switch {
		case errors.Is(err, materials.ErrInvalidRange):
			return errResp(http.StatusBadRequest, err.Error())
		case errors.Is(err, profile.ErrCharacterNotFound):
			return errResp(http.StatusNotFound, "Character not found")
		}
		h.Log.Error("materials failed", zap.String("character", req.Character), zap.Error(err))
		return errResp(http.StatusInternalServerError, "materials failed")
	}

	respJSON, err := json.Marshal(totals)
	if err != nil {
		return errResp(http.StatusInternalServerError, "encode failed")
	}
	return events.LambdaFunctionURLResponse{StatusCode: http.StatusOK, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
