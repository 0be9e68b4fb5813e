package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/dbckit/pkg/codec"
	"github.com/ssargent/dbckit/pkg/dbc"
	"github.com/ssargent/dbckit/pkg/hashname"
)

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleSniff godoc
//
//	@Summary		Identify a container
//	@Description	Report the format, schema and declared record count of the uploaded container
//	@Tags			containers
//	@Accept			octet-stream
//	@Produce		json
//	@Success		200	{object}	dbc.Info
//	@Failure		400	{object}	APIResponse
//	@Router			/sniff [post]
//	@Security		ApiKeyAuth
func (s *Server) handleSniff(w http.ResponseWriter, r *http.Request) {
	info, err := dbc.Sniff(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to read container: %v", err), statusFor(err))
		return
	}
	sendSuccess(w, info)
}

// handleConvert godoc
//
//	@Summary		Convert a container
//	@Description	Re-encode the uploaded container. Without ?to= binary becomes text and text becomes binary.
//	@Tags			containers
//	@Accept			octet-stream
//	@Produce		octet-stream
//	@Param			to	query		string	false	"Target format (text or binary)"
//	@Success		200	{string}	byte
//	@Failure		400	{object}	APIResponse
//	@Failure		415	{object}	APIResponse
//	@Failure		422	{object}	APIResponse
//	@Router			/convert [post]
//	@Security		ApiKeyAuth
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var (
		to     dbc.Format
		target = r.URL.Query().Get("to")
		err    error
	)
	if target != "" {
		if to, err = dbc.ParseFormat(target); err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	c, info, err := dbc.Open(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes),
		dbc.WithLogger(s.logger.With("remote", r.RemoteAddr)),
		dbc.WithMetrics(s.containers),
	)
	if err != nil {
		s.metrics.RecordConversion(info.Schema.String(), target, false)
		sendError(w, fmt.Sprintf("Failed to load container: %v", err), statusFor(err))
		return
	}
	if target == "" {
		to = dbc.Text
		if info.Format() == dbc.Text {
			to = dbc.Binary
		}
	}

	var buf bytes.Buffer
	if err := c.SaveAs(&buf, to); err != nil {
		s.metrics.RecordConversion(info.Schema.String(), to.String(), false)
		sendError(w, fmt.Sprintf("Failed to encode container: %v", err), statusFor(err))
		return
	}
	s.metrics.RecordConversion(info.Schema.String(), to.String(), true)

	contentType := "application/octet-stream"
	if to == dbc.Text {
		contentType = "text/plain; charset=gb18030"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Dbc-Schema", info.Schema.String())
	w.Header().Set("X-Dbc-Format", to.String())
	w.Header().Set("X-Dbc-Skipped", strconv.Itoa(c.Skipped()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleHash godoc
//
//	@Summary		Hash an asset path
//	@Description	Compute the NameHash id of a path. With ?index=true the path is recorded for reverse lookup.
//	@Tags			names
//	@Produce		json
//	@Param			path	query		string	true	"Asset path"
//	@Param			index	query		bool	false	"Record the path in the name index"
//	@Success		200		{object}	HashResponse
//	@Failure		400		{object}	APIResponse
//	@Router			/hash [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHash(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		sendError(w, "path is required", http.StatusBadRequest)
		return
	}
	if err := hashname.Check(path); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := HashResponse{
		Path:       path,
		Normalized: hashname.Normalize(path),
		ID:         hashname.ID(path),
	}
	resp.Hex = fmt.Sprintf("0x%08X", resp.ID)

	if index, _ := strconv.ParseBool(r.URL.Query().Get("index")); index {
		if s.names == nil {
			sendError(w, "name index is not configured", http.StatusNotImplemented)
			return
		}
		if _, err := s.names.IndexName(path); err != nil {
			sendError(w, fmt.Sprintf("Failed to index name: %v", err), http.StatusInternalServerError)
			return
		}
		resp.Indexed = true
	}
	sendSuccess(w, resp)
}

// handleNames godoc
//
//	@Summary		Reverse lookup
//	@Description	List the indexed paths that hash to an id (decimal or 0x hex)
//	@Tags			names
//	@Produce		json
//	@Param			id	path		string	true	"NameHash id"
//	@Success		200	{object}	NamesResponse
//	@Failure		400	{object}	APIResponse
//	@Failure		501	{object}	APIResponse
//	@Router			/names/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleNames(w http.ResponseWriter, r *http.Request) {
	if s.names == nil {
		sendError(w, "name index is not configured", http.StatusNotImplemented)
		return
	}

	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	names, err := s.names.LookupNames(id)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to look up names: %v", err), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	sendSuccess(w, NamesResponse{ID: id, Hex: fmt.Sprintf("0x%08X", id), Names: names})
}

// ParseID parses a NameHash id written in decimal or as 0x-prefixed hex.
func ParseID(s string) (uint32, error) {
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = rest, 16
	}
	id, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint32(id), nil
}

// statusFor maps a container error to an HTTP status.
func statusFor(err error) int {
	var (
		tooLarge *http.MaxBytesError
		pos      *dbc.PositionError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dbc.ErrUndefined), errors.Is(err, dbc.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &pos), errors.Is(err, codec.ErrBadField):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
