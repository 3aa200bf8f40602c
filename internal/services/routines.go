// Routines REST API [RoutineGateway] implementation
//
// Talks to the FastAPI backend under /api/rutinas. Error bodies follow FastAPI's {"detail": ...} convention,
// where detail is either a string or a list of {loc, msg} entries for request validation failures.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
)

const routinesPath = "/api/rutinas"

var _ RoutineGateway = (*RoutineService)(nil)

// RoutineService implements [RoutineGateway] over HTTP.
type RoutineService struct {
	api    *APIService
	logger *log.Logger
}

// NewRoutineService creates a gateway on top of the raw API transport.
//
// A nil logger discards request logs.
func NewRoutineService(api *APIService, logger *log.Logger) *RoutineService {
	if api == nil {
		api = NewAPIService("", nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RoutineService{api: api, logger: logger}
}

// errorDetail is FastAPI's error envelope.
type errorDetail struct {
	Detail json.RawMessage `json:"detail"`
}

type validationEntry struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseDetail extracts the field and message of a FastAPI error body.
func parseDetail(body []byte) (field, msg string, ok bool) {
	var env errorDetail
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return "", "", false
	}

	var text string
	if err := json.Unmarshal(env.Detail, &text); err == nil {
		return "", text, text != ""
	}

	var entries []validationEntry
	if err := json.Unmarshal(env.Detail, &entries); err == nil && len(entries) > 0 {
		first := entries[0]
		if n := len(first.Loc); n > 0 {
			field = fmt.Sprint(first.Loc[n-1])
		}
		return field, first.Msg, true
	}

	return "", "", false
}

// do sends one request and maps non-2xx answers onto the error taxonomy.
//
// id identifies the routine for [shared.NotFoundError]; pass 0 when the path has none.
func (s *RoutineService) do(ctx context.Context, method, path string, body any, id int) (*APIResponse, error) {
	var data []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
		}
		data = encoded
	} else if method == http.MethodPost || method == http.MethodPut {
		data = []byte{}
	}

	resp, err := s.api.Do(ctx, method, path, data)
	if err != nil {
		s.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, &shared.TransportError{Err: err}
	}

	s.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.OK() {
		return resp, nil
	}

	field, msg, structured := parseDetail(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &shared.NotFoundError{Resource: "routine", ID: id, Detail: msg}
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && structured:
		return nil, &shared.ValidationError{
			Code:       shared.CodeServerRejected,
			Field:      field,
			Index:      -1,
			Message:    msg,
			StatusCode: resp.StatusCode,
		}
	case structured:
		return nil, &shared.TransportError{StatusCode: resp.StatusCode, Err: errors.New(msg)}
	default:
		return nil, &shared.TransportError{StatusCode: resp.StatusCode}
	}
}

func decode(resp *APIResponse, result any) error {
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return &shared.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// List calls GET /api/rutinas with nombre, dia, page and size query parameters.
//
// Accepts both the paginated envelope and a bare array; for the latter total is the array length.
func (s *RoutineService) List(ctx context.Context, q models.ListQuery) (*models.RoutinePage, error) {
	params := url.Values{}
	if q.Name != "" {
		params.Set("nombre", q.Name)
	}
	if q.Day != "" {
		params.Set("dia", string(q.Day))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}

	path := routinesPath
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := s.do(ctx, http.MethodGet, path, nil, 0)
	if err != nil {
		return nil, err
	}

	page := &models.RoutinePage{}
	if trimmed := bytes.TrimSpace(resp.Body); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := decode(resp, &page.Items); err != nil {
			return nil, err
		}
		page.Total = len(page.Items)
		if q.Page > 0 && q.Size > 0 {
			start := min((q.Page-1)*q.Size, page.Total)
			end := min(start+q.Size, page.Total)
			page.Items = page.Items[start:end]
		}
	} else if err := decode(resp, page); err != nil {
		return nil, err
	}

	if page.Items == nil {
		page.Items = []models.Routine{}
	}
	if page.Page == 0 {
		page.Page = q.Page
	}
	if page.Size == 0 {
		page.Size = q.Size
	}

	return page, nil
}

// Search calls GET /api/rutinas/buscar.
func (s *RoutineService) Search(ctx context.Context, name string, day models.Weekday) ([]models.Routine, error) {
	params := url.Values{"nombre": {name}}
	if day != "" {
		params.Set("dia", string(day))
	}

	resp, err := s.do(ctx, http.MethodGet, routinesPath+"/buscar?"+params.Encode(), nil, 0)
	if err != nil {
		return nil, err
	}

	routines := []models.Routine{}
	if err := decode(resp, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// Get calls GET /api/rutinas/{id}.
func (s *RoutineService) Get(ctx context.Context, id int) (*models.Routine, error) {
	resp, err := s.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", routinesPath, id), nil, id)
	if err != nil {
		return nil, err
	}

	var routine models.Routine
	if err := decode(resp, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// Create calls POST /api/rutinas.
func (s *RoutineService) Create(ctx context.Context, payload models.RoutinePayload) (*models.Routine, error) {
	resp, err := s.do(ctx, http.MethodPost, routinesPath, payload, 0)
	if err != nil {
		return nil, err
	}

	var routine models.Routine
	if err := decode(resp, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// Update calls PUT /api/rutinas/{id}.
func (s *RoutineService) Update(ctx context.Context, id int, payload models.RoutinePayload) (*models.Routine, error) {
	resp, err := s.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", routinesPath, id), payload, id)
	if err != nil {
		return nil, err
	}

	var routine models.Routine
	if err := decode(resp, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// Delete calls DELETE /api/rutinas/{id}. The response body is ignored.
func (s *RoutineService) Delete(ctx context.Context, id int) error {
	_, err := s.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", routinesPath, id), nil, id)
	return err
}

// Duplicate calls POST /api/rutinas/{id}/duplicar.
func (s *RoutineService) Duplicate(ctx context.Context, id int) (*models.Routine, error) {
	resp, err := s.do(ctx, http.MethodPost, fmt.Sprintf("%s/%d/duplicar", routinesPath, id), nil, id)
	if err != nil {
		return nil, err
	}

	var routine models.Routine
	if err := decode(resp, &routine); err != nil {
		return nil, err
	}
	return &routine, nil
}

// Export calls GET /api/rutinas/export?format=.
//
// The filename comes from Content-Disposition when the backend sends one, else "rutinas.<format>".
func (s *RoutineService) Export(ctx context.Context, format models.ExportFormat) (*models.ExportFile, error) {
	params := url.Values{"format": {string(format)}}
	resp, err := s.do(ctx, http.MethodGet, routinesPath+"/export?"+params.Encode(), nil, 0)
	if err != nil {
		return nil, err
	}

	file := &models.ExportFile{
		Filename:    format.Filename(),
		ContentType: resp.Headers.Get("Content-Type"),
		Data:        resp.Body,
	}

	if cd := resp.Headers.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			file.Filename = params["filename"]
		}
	}

	return file, nil
}

// Stats calls GET /api/rutinas/stats.
func (s *RoutineService) Stats(ctx context.Context) (*models.Stats, error) {
	resp, err := s.do(ctx, http.MethodGet, routinesPath+"/stats", nil, 0)
	if err != nil {
		return nil, err
	}

	var stats models.Stats
	if err := decode(resp, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
