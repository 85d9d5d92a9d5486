package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/render"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer drives a form controller from the terminal. Run prompts for every
// field and submits; Render prints a plain-text summary of a view.
type Renderer struct {
	driver        PromptDriver
	out           io.Writer
	theme         Theme
	confirmSubmit bool
	logger        *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer with the survey driver by default.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		theme:         DefaultTheme,
		confirmSubmit: true,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render prints the current values with option labels resolved, followed by
// the visible errors of each field and the acknowledgment, if any.
func (r *Renderer) Render(ctx context.Context, view formstate.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	if view.Title != "" {
		b.WriteString(view.Title)
		b.WriteString("\n")
	}
	for _, field := range view.Fields {
		b.WriteString("  ")
		b.WriteString(field.Field.DisplayLabel())
		b.WriteString(": ")
		b.WriteString(displayValue(field))
		b.WriteString("\n")
		if field.Error != "" {
			b.WriteString("    ")
			b.WriteString(r.theme.ErrorPrefix)
			b.WriteString(field.Error)
			b.WriteString("\n")
		}
	}
	if receipt := opts.Receipt; receipt != nil {
		fmt.Fprintf(&b, "Submitted (%s)\n", receipt.ID)
		b.WriteString(receipt.Body)
		if !strings.HasSuffix(receipt.Body, "\n") {
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}

// Run prompts for every field, re-asking while a field shows an error, then
// submits the controller. Declining the confirmation returns ErrAborted.
func (r *Renderer) Run(ctx context.Context, ctrl *formstate.Controller) (formstate.Result, error) {
	if r.driver == nil {
		return formstate.Result{}, ErrNoDriver
	}
	if ctrl == nil {
		return formstate.Result{}, errors.New("tui: controller is nil")
	}

	def := ctrl.Definition()
	if def.Title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+def.Title); err != nil {
			return formstate.Result{}, err
		}
	}

	pending := def.Fields
	for {
		for _, field := range pending {
			if err := r.promptField(ctx, ctrl, field); err != nil {
				return formstate.Result{}, err
			}
		}

		if r.confirmSubmit {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{
				Message: r.theme.PromptPrefix + submitMessage(def),
				Default: true,
			})
			if err != nil {
				return formstate.Result{}, err
			}
			if !ok {
				return formstate.Result{Errors: ctrl.Errors(), Snapshot: ctrl.Snapshot()}, ErrAborted
			}
		}

		result, err := ctrl.Submit(ctx)
		if err != nil {
			return result, err
		}
		if result.Submitted {
			r.logger.Debug("tui session submitted", "form", def.ID)
			return result, nil
		}

		pending = pending[:0:0]
		for _, field := range def.Fields {
			if msg := result.Errors[field.Name]; msg != "" {
				if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
					return result, err
				}
				pending = append(pending, field)
			}
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, ctrl *formstate.Controller, field model.FieldDefinition) error {
	for {
		value, err := r.ask(ctx, ctrl, field)
		if err != nil {
			return err
		}
		if err := ctrl.SetValue(field.Name, value); err != nil {
			return err
		}
		msg := ctrl.VisibleError(field.Name)
		if msg == "" {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
}

func (r *Renderer) ask(ctx context.Context, ctrl *formstate.Controller, field model.FieldDefinition) (any, error) {
	values := ctrl.Values()
	message := r.theme.PromptPrefix + field.DisplayLabel()
	help := field.Description

	switch field.Kind {
	case model.FieldKindMultilineText:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: values.String(field.Name),
			Help:    help,
		})

	case model.FieldKindSingleSelect:
		placeholder := field.Placeholder
		if placeholder == "" {
			placeholder = "Select " + field.DisplayLabel()
		}
		labels := append([]string{placeholder}, optionLabels(field)...)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: optionIndex(field, values.String(field.Name)) + 1,
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		return optionValue(field, idx-1), nil

	case model.FieldKindSingleChoiceGroup:
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      optionLabels(field),
			DefaultIndex: optionIndex(field, values.String(field.Name)),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		return optionValue(field, idx), nil

	case model.FieldKindMultiChoiceGroup:
		var defaults []int
		for _, selected := range values.Strings(field.Name) {
			if idx := optionIndex(field, selected); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  optionLabels(field),
			Defaults: defaults,
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		selected := make([]string, 0, len(indices))
		for _, idx := range indices {
			if value := optionValue(field, idx); value != "" {
				selected = append(selected, value)
			}
		}
		return selected, nil

	default:
		return r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: values.String(field.Name),
			Help:    help,
		})
	}
}

func optionLabels(field model.FieldDefinition) []string {
	labels := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		labels = append(labels, field.OptionLabel(opt.Value))
	}
	return labels
}

func optionIndex(field model.FieldDefinition, value string) int {
	if value == "" {
		return -1
	}
	for i, opt := range field.Options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

func optionValue(field model.FieldDefinition, idx int) string {
	if idx < 0 || idx >= len(field.Options) {
		return ""
	}
	return field.Options[idx].Value
}

func displayValue(field formstate.FieldView) string {
	def := field.Field
	if def.Kind.IsMulti() {
		if len(field.Values) == 0 {
			return "-"
		}
		labels := make([]string, 0, len(field.Values))
		for _, value := range field.Values {
			labels = append(labels, def.OptionLabel(value))
		}
		return strings.Join(labels, ", ")
	}
	if field.Value == "" {
		return "-"
	}
	if def.Kind.HasOptions() {
		return def.OptionLabel(field.Value)
	}
	return strings.ReplaceAll(field.Value, "\n", "\n    ")
}

func submitMessage(def model.FormDefinition) string {
	label := strings.TrimSpace(def.SubmitLabel)
	if label == "" {
		label = "Submit"
	}
	return label + "?"
}
