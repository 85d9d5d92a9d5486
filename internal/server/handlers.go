package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-profileform/internal/logging"
	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/render"
	"github.com/goliatone/go-profileform/pkg/submit"
)

var errMalformedBody = errors.New("malformed request body")

func newRegistry(renderers ...render.Renderer) *render.Registry {
	registry := render.NewRegistry()
	for _, renderer := range renderers {
		_ = registry.Register(renderer)
	}
	return registry
}

// newController builds a per-request controller whose handler captures the
// receipt of an accepted submission.
func (s *Server) newController(receipt *submit.Receipt) (*formstate.Controller, error) {
	handler := submit.HandlerFunc(func(ctx context.Context, snapshot model.Snapshot) error {
		r, err := s.ack.Acknowledge(ctx, snapshot)
		if err != nil {
			return err
		}
		*receipt = r
		return nil
	})
	return formstate.New(s.def, formstate.WithSchema(s.schema), formstate.WithSubmitHandler(handler))
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.newController(&submit.Receipt{})
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "failed to create controller"), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, r, http.StatusOK, ctrl.View(), nil)
}

func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.metrics.submission(transportForm, outcomeMalformed)
		handleError(w, r, goerr.Wrap(errMalformedBody, err.Error()), http.StatusBadRequest)
		return
	}

	var receipt submit.Receipt
	ctrl, err := s.newController(&receipt)
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "failed to create controller"), http.StatusInternalServerError)
		return
	}
	for _, field := range s.def.Fields {
		var value any = r.PostForm.Get(field.Name)
		if field.Kind.IsMulti() {
			value = append([]string{}, r.PostForm[field.Name]...)
		}
		if err := ctrl.SetValue(field.Name, value); err != nil {
			s.metrics.submission(transportForm, outcomeMalformed)
			handleError(w, r, goerr.Wrap(err, "invalid form value", goerr.V("field", field.Name)), http.StatusBadRequest)
			return
		}
	}

	result, err := ctrl.Submit(r.Context())
	if err != nil {
		s.metrics.submission(transportForm, outcomeFailed)
		handleError(w, r, goerr.Wrap(err, "failed to submit form", goerr.V("form", s.def.ID)), http.StatusInternalServerError)
		return
	}
	if !result.Submitted {
		s.metrics.rejected(transportForm, result.Errors)
		s.renderPage(w, r, http.StatusUnprocessableEntity, ctrl.View(), nil)
		return
	}

	s.metrics.submission(transportForm, outcomeAccepted)
	s.renderPage(w, r, http.StatusOK, ctrl.View(), &receipt)
}

func (s *Server) handleSubmitJSON(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	values, err := decodeJSONValues(r.Body)
	if err != nil {
		s.metrics.submission(transportJSON, outcomeMalformed)
		handleError(w, r, err, http.StatusBadRequest)
		return
	}

	var receipt submit.Receipt
	ctrl, err := s.newController(&receipt)
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "failed to create controller"), http.StatusInternalServerError)
		return
	}
	for name := range values {
		if _, ok := s.def.Field(name); !ok {
			s.metrics.submission(transportJSON, outcomeMalformed)
			handleError(w, r, goerr.Wrap(errMalformedBody, "unknown field", goerr.V("field", name)), http.StatusBadRequest)
			return
		}
	}
	for _, field := range s.def.Fields {
		if err := ctrl.SetValue(field.Name, values[field.Name]); err != nil {
			s.metrics.submission(transportJSON, outcomeMalformed)
			handleError(w, r, goerr.Wrap(errMalformedBody, err.Error(), goerr.V("field", field.Name)), http.StatusBadRequest)
			return
		}
	}

	result, err := ctrl.Submit(r.Context())
	if err != nil {
		s.metrics.submission(transportJSON, outcomeFailed)
		handleError(w, r, goerr.Wrap(err, "failed to submit form", goerr.V("form", s.def.ID)), http.StatusInternalServerError)
		return
	}
	if !result.Submitted {
		s.metrics.rejected(transportJSON, result.Errors)
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{"errors": result.Errors})
		return
	}

	s.metrics.submission(transportJSON, outcomeAccepted)
	writeJSON(w, r, http.StatusOK, receipt)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapiDoc)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, view formstate.View, receipt *submit.Receipt) {
	renderer, err := s.orch.Renderer(s.rendererName)
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "renderer not available"), http.StatusInternalServerError)
		return
	}
	out, err := renderer.Render(r.Context(), view, render.RenderOptions{
		Action:  "/",
		Method:  http.MethodPost,
		Receipt: receipt,
	})
	if err != nil {
		handleError(w, r, goerr.Wrap(err, "failed to render form", goerr.V("renderer", s.rendererName)), http.StatusInternalServerError)
		return
	}
	s.metrics.renders.WithLabelValues(renderer.Name()).Inc()

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		logging.From(r.Context()).Warn("failed to write response", "error", err)
	}
}

func decodeJSONValues(body io.Reader) (model.Values, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, goerr.Wrap(errMalformedBody, err.Error())
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, goerr.Wrap(errMalformedBody, "empty body")
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, goerr.Wrap(errMalformedBody, "invalid JSON")
	}
	return model.Values(values), nil
}
