package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/profile"
	"github.com/goliatone/go-profileform/pkg/render"
	"github.com/goliatone/go-profileform/pkg/submit"
	"github.com/goliatone/go-profileform/pkg/testsupport"
	"github.com/goliatone/go-profileform/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	infoFailOn   string
	onConfirm    func()
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	if s.onConfirm != nil {
		s.onConfirm()
	}
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	if s.infoFailOn != "" && strings.Contains(msg, s.infoFailOn) {
		return errInfoWrite
	}
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

var errInfoWrite = errors.New("info write failed")

func TestRun_CollectsAndSubmits(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alice"},
		textAreas: []string{"1 Main St"},
		selectIdx: []int{2, 1}, // UK (after placeholder), Female
		multiIdx:  [][]int{{0, 2}},
		confirm:   []bool{true},
	}
	handler := submit.NewAcknowledger()
	ctrl := testsupport.NewProfileController(t, formstate.WithSubmitHandler(handler))

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	result, err := r.Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Submitted {
		t.Fatalf("expected submission, errors: %v", result.Errors)
	}

	raw, err := json.Marshal(result.Snapshot)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Alice","address":"1 Main St","country":"uk","gender":"female","hobbies":["reading","music"]}`
	if string(raw) != want {
		t.Fatalf("snapshot mismatch\nwant %s\n got %s", want, raw)
	}
	if _, ok := handler.Last(); !ok {
		t.Fatalf("expected handler to receive the submission")
	}

	wantOptions := []string{"Select Country", "USA", "UK", "Canada"}
	if diff := cmp.Diff(wantOptions, driver.selectCfgs[0].Options); diff != "" {
		t.Fatalf("country options mismatch (-want +got):\n%s", diff)
	}
	if driver.selectCfgs[0].DefaultIndex != 0 {
		t.Fatalf("expected placeholder as default, got %d", driver.selectCfgs[0].DefaultIndex)
	}
}

func TestRun_RepromptsUntilValid(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Bob"},
		textAreas: []string{"2 High St"},
		selectIdx: []int{0, 3, 0}, // placeholder, then Canada; Male
		multiIdx:  [][]int{{}, {1}},
		confirm:   []bool{true},
	}
	ctrl := testsupport.NewProfileController(t)

	r, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	result, err := r.Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Submitted {
		t.Fatalf("expected submission")
	}

	want := []string{
		"Profile",
		"! Name is required",
		"! Country is required",
		"! Select at least one hobby",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := ctrl.Values().String(profile.FieldCountry); got != "canada" {
		t.Fatalf("expected canada, got %q", got)
	}
}

func TestRun_DeclinedConfirmationAborts(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alice"},
		textAreas: []string{"1 Main St"},
		selectIdx: []int{1, 0},
		multiIdx:  [][]int{{0}},
		confirm:   []bool{false},
	}
	handler := submit.NewAcknowledger()
	ctrl := testsupport.NewProfileController(t, formstate.WithSubmitHandler(handler))

	r, _ := New(WithPromptDriver(driver))
	if _, err := r.Run(context.Background(), ctrl); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, ok := handler.Last(); ok {
		t.Fatalf("handler must not run when the user declines")
	}
}

func TestRun_WithoutConfirmation(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Alice"},
		textAreas: []string{"1 Main St"},
		selectIdx: []int{1, 0},
		multiIdx:  [][]int{{0}},
	}
	ctrl := testsupport.NewProfileController(t)

	r, _ := New(WithPromptDriver(driver), WithConfirmSubmit(false))
	result, err := r.Run(context.Background(), ctrl)
	if err != nil || !result.Submitted {
		t.Fatalf("expected submission without confirmation, got %v %v", result, err)
	}
}

func TestRun_DriverAbortPropagates(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	r, _ := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Run(context.Background(), ctrl); err == nil {
		t.Fatalf("expected driver error to propagate")
	}
}

func TestRender_Summary(t *testing.T) {
	ctrl := testsupport.NewProfileController(t)
	testsupport.Fill(t, ctrl, model.Values{
		profile.FieldName:    "Alice",
		profile.FieldCountry: "usa",
		profile.FieldHobbies: []string{"music", "reading"},
	})
	if err := ctrl.Touch(profile.FieldGender); err != nil {
		t.Fatalf("touch: %v", err)
	}

	r, _ := New(WithPromptDriver(&stubDriver{}))
	out, err := r.Render(context.Background(), ctrl.View(), render.RenderOptions{
		Receipt: &submit.Receipt{ID: "r-9", Body: "name: Alice"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := strings.Join([]string{
		"Profile",
		"  Name: Alice",
		"  Address: -",
		"  Country: USA",
		"  Gender: -",
		"    ✗ Gender is required",
		"  Hobbies: Music, Reading",
		"Submitted (r-9)",
		"name: Alice",
		"",
	}, "\n")
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SubmitErrorWriteFailurePropagates(t *testing.T) {
	taken := false
	schema, err := validation.Compile(profile.Definition(),
		validation.WithValidator(profile.FieldName, validation.ValidatorFunc(func(any) error {
			if taken {
				return errors.New("Name was taken")
			}
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	driver := &stubDriver{
		inputs:     []string{"Alice"},
		textAreas:  []string{"1 Main St"},
		selectIdx:  []int{1, 0},
		multiIdx:   [][]int{{1}},
		confirm:    []bool{true},
		infoFailOn: "Name was taken",
		onConfirm:  func() { taken = true },
	}
	ctrl := testsupport.NewProfileController(t, formstate.WithSchema(schema))

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	result, err := r.Run(context.Background(), ctrl)
	if !errors.Is(err, errInfoWrite) {
		t.Fatalf("expected info write error, got %v", err)
	}
	if result.Submitted {
		t.Fatalf("expected rejected submission")
	}
}
