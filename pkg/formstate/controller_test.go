package formstate_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/profile"
	"github.com/goliatone/go-profileform/pkg/submit"
)

type captureHandler struct {
	calls     int
	snapshots []model.Snapshot
	err       error
}

func (h *captureHandler) Submit(_ context.Context, snapshot model.Snapshot) error {
	h.calls++
	h.snapshots = append(h.snapshots, snapshot)
	return h.err
}

func newProfileController(t *testing.T, handler submit.Handler) *formstate.Controller {
	t.Helper()
	ctrl, err := formstate.New(profile.Definition(), formstate.WithSubmitHandler(handler))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func fillValid(t *testing.T, ctrl *formstate.Controller) {
	t.Helper()
	steps := []struct {
		name  string
		value any
	}{
		{profile.FieldName, "Alice"},
		{profile.FieldAddress, "1 Main St"},
		{profile.FieldCountry, "usa"},
		{profile.FieldGender, "female"},
		{profile.FieldHobbies, []string{"reading"}},
	}
	for _, step := range steps {
		if err := ctrl.SetValue(step.name, step.value); err != nil {
			t.Fatalf("set %s: %v", step.name, err)
		}
	}
}

func TestSubmit_AllEmptyBlocksWithEveryError(t *testing.T) {
	handler := &captureHandler{}
	ctrl := newProfileController(t, handler)

	result, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Submitted {
		t.Fatalf("expected submission to be blocked")
	}
	if handler.calls != 0 {
		t.Fatalf("handler must not be called, got %d calls", handler.calls)
	}

	want := model.Errors{
		"name":    "Name is required",
		"address": "Address is required",
		"country": "Country is required",
		"gender":  "Gender is required",
		"hobbies": "Select at least one hobby",
	}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	for _, name := range profile.Definition().Names() {
		if !ctrl.IsTouched(name) {
			t.Fatalf("expected %s touched after failed submit", name)
		}
		if ctrl.VisibleError(name) == "" {
			t.Fatalf("expected visible error for %s", name)
		}
	}
}

func TestSubmit_ValidValuesReachHandler(t *testing.T) {
	handler := &captureHandler{}
	ctrl := newProfileController(t, handler)
	fillValid(t, ctrl)

	result, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Submitted {
		t.Fatalf("expected submission, errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", result.Errors)
	}
	if handler.calls != 1 {
		t.Fatalf("expected one handler call, got %d", handler.calls)
	}

	got, err := json.Marshal(handler.snapshots[0])
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	want := `{"name":"Alice","address":"1 Main St","country":"usa","gender":"female","hobbies":["reading"]}`
	if string(got) != want {
		t.Fatalf("snapshot mismatch\nwant %s\n got %s", want, got)
	}

	// State is kept after a successful submit.
	if ctrl.Values().String(profile.FieldName) != "Alice" {
		t.Fatalf("expected values to survive submission")
	}
}

func TestSubmit_EachMissingFieldBlocksOnlyThatField(t *testing.T) {
	for _, missing := range profile.Definition().Names() {
		t.Run(missing, func(t *testing.T) {
			handler := &captureHandler{}
			ctrl := newProfileController(t, handler)
			fillValid(t, ctrl)

			field, _ := ctrl.Definition().Field(missing)
			if err := ctrl.SetValue(missing, field.EmptyValue()); err != nil {
				t.Fatalf("clear %s: %v", missing, err)
			}

			result, err := ctrl.Submit(context.Background())
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if result.Submitted || handler.calls != 0 {
				t.Fatalf("expected blocked submission")
			}
			if diff := cmp.Diff([]string{missing}, result.Errors.Fields(ctrl.Definition())); diff != "" {
				t.Fatalf("error fields mismatch (-want +got):\n%s", diff)
			}
			if result.Errors[missing] == "" {
				t.Fatalf("expected non-empty message for %s", missing)
			}
		})
	}
}

func TestSetValue_ValidValueClearsOnlyThatError(t *testing.T) {
	ctrl := newProfileController(t, nil)

	if err := ctrl.SetValue(profile.FieldGender, "male"); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	errs := ctrl.Errors()
	if errs.Has(profile.FieldGender) {
		t.Fatalf("gender error should clear, got %q", errs[profile.FieldGender])
	}
	for _, name := range []string{profile.FieldName, profile.FieldAddress, profile.FieldCountry, profile.FieldHobbies} {
		if !errs.Has(name) {
			t.Fatalf("expected %s to keep its error", name)
		}
	}
}

func TestErrorsHiddenUntilTouched(t *testing.T) {
	ctrl := newProfileController(t, nil)

	if ctrl.Valid() {
		t.Fatalf("empty profile form should be invalid")
	}
	if msg := ctrl.VisibleError(profile.FieldName); msg != "" {
		t.Fatalf("expected hidden error before interaction, got %q", msg)
	}

	if err := ctrl.Touch(profile.FieldName); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if got := ctrl.VisibleError(profile.FieldName); got != "Name is required" {
		t.Fatalf("expected visible required error, got %q", got)
	}
	if ctrl.Values().String(profile.FieldName) != "" {
		t.Fatalf("touch must not change the value")
	}
	if ctrl.VisibleError(profile.FieldAddress) != "" {
		t.Fatalf("untouched fields must stay quiet")
	}
}

func TestCountryDeselectRestoresError(t *testing.T) {
	ctrl := newProfileController(t, nil)

	if err := ctrl.SetValue(profile.FieldCountry, "usa"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if ctrl.VisibleError(profile.FieldCountry) != "" {
		t.Fatalf("expected no error after selecting a country")
	}
	if err := ctrl.SetValue(profile.FieldCountry, ""); err != nil {
		t.Fatalf("deselect: %v", err)
	}
	if got := ctrl.VisibleError(profile.FieldCountry); got != "Country is required" {
		t.Fatalf("expected country error restored, got %q", got)
	}
}

func TestCountryAcceptsUnlistedValue(t *testing.T) {
	ctrl := newProfileController(t, nil)
	if err := ctrl.SetValue(profile.FieldCountry, "atlantis"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ctrl.Errors().Has(profile.FieldCountry) {
		t.Fatalf("country only checks non-emptiness")
	}
}

func TestToggleHobbies(t *testing.T) {
	ctrl := newProfileController(t, nil)

	if err := ctrl.Toggle(profile.FieldHobbies, "music"); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if diff := cmp.Diff([]string{"music"}, ctrl.Values().Strings(profile.FieldHobbies)); diff != "" {
		t.Fatalf("hobbies mismatch (-want +got):\n%s", diff)
	}
	if ctrl.Errors().Has(profile.FieldHobbies) {
		t.Fatalf("one hobby should satisfy the rule")
	}

	if err := ctrl.Toggle(profile.FieldHobbies, "music"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if got := ctrl.Values().Strings(profile.FieldHobbies); len(got) != 0 {
		t.Fatalf("expected empty hobbies, got %v", got)
	}
	if got := ctrl.VisibleError(profile.FieldHobbies); got != "Select at least one hobby" {
		t.Fatalf("expected hobbies error restored, got %q", got)
	}
}

func TestToggleKeepsSelectionOrderWithoutDuplicates(t *testing.T) {
	ctrl := newProfileController(t, nil)
	for _, hobby := range []string{"sports", "reading", "music", "reading"} {
		if err := ctrl.Toggle(profile.FieldHobbies, hobby); err != nil {
			t.Fatalf("toggle %s: %v", hobby, err)
		}
	}
	if diff := cmp.Diff([]string{"sports", "music"}, ctrl.Values().Strings(profile.FieldHobbies)); diff != "" {
		t.Fatalf("hobbies mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_DeduplicatesSets(t *testing.T) {
	ctrl := newProfileController(t, nil)
	if err := ctrl.SetValue(profile.FieldHobbies, []any{"reading", "reading", "music"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff([]string{"reading", "music"}, ctrl.Values().Strings(profile.FieldHobbies)); diff != "" {
		t.Fatalf("hobbies mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValue_RejectsUnknownAndMistypedValues(t *testing.T) {
	ctrl := newProfileController(t, nil)

	if err := ctrl.SetValue("nickname", "Al"); !errors.Is(err, formstate.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := ctrl.SetValue(profile.FieldName, 42); !errors.Is(err, formstate.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := ctrl.SetValue(profile.FieldHobbies, "reading"); !errors.Is(err, formstate.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for scalar set, got %v", err)
	}
	if err := ctrl.Toggle(profile.FieldCountry, "usa"); !errors.Is(err, formstate.ErrNotMultiChoice) {
		t.Fatalf("expected ErrNotMultiChoice, got %v", err)
	}
	if err := ctrl.Touch("nickname"); !errors.Is(err, formstate.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField from Touch, got %v", err)
	}
	if _, exists := ctrl.Values()["nickname"]; exists {
		t.Fatalf("orphan keys must never reach values")
	}
}

func TestSubmit_HandlerErrorIsReturned(t *testing.T) {
	boom := errors.New("backend down")
	handler := &captureHandler{err: boom}
	ctrl := newProfileController(t, handler)
	fillValid(t, ctrl)

	result, err := ctrl.Submit(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if result.Submitted {
		t.Fatalf("failed handler must not report submission")
	}
}

func TestInitialValuesAndReset(t *testing.T) {
	ctrl, err := formstate.New(profile.Definition(), formstate.WithInitialValues(model.Values{
		profile.FieldCountry: "uk",
	}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if ctrl.IsTouched(profile.FieldCountry) {
		t.Fatalf("seeded values must not be touched")
	}
	if ctrl.Errors().Has(profile.FieldCountry) {
		t.Fatalf("seeded country should satisfy the rule")
	}

	if err := ctrl.SetValue(profile.FieldCountry, "canada"); err != nil {
		t.Fatalf("set: %v", err)
	}
	ctrl.Reset()
	if got := ctrl.Values().String(profile.FieldCountry); got != "uk" {
		t.Fatalf("expected reset to seed, got %q", got)
	}
	if len(ctrl.Touched()) != 0 {
		t.Fatalf("expected touched cleared on reset")
	}

	if _, err := formstate.New(profile.Definition(), formstate.WithInitialValues(model.Values{"bogus": "x"})); !errors.Is(err, formstate.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for bad seed, got %v", err)
	}
}

func TestNew_RejectsInvalidDefinition(t *testing.T) {
	def := profile.Definition()
	def.Fields = append(def.Fields, def.Fields[0])
	if _, err := formstate.New(def); !errors.Is(err, model.ErrDuplicateField) {
		t.Fatalf("expected duplicate field error, got %v", err)
	}
}

func TestIndependentInstances(t *testing.T) {
	first := newProfileController(t, nil)
	second := newProfileController(t, nil)

	if err := first.SetValue(profile.FieldName, "Alice"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if second.Values().String(profile.FieldName) != "" || second.IsTouched(profile.FieldName) {
		t.Fatalf("instances must not share state")
	}
}

func TestView(t *testing.T) {
	ctrl := newProfileController(t, nil)
	if err := ctrl.Toggle(profile.FieldHobbies, "sports"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := ctrl.Touch(profile.FieldName); err != nil {
		t.Fatalf("touch: %v", err)
	}

	view := ctrl.View()
	if view.ID != profile.FormID || len(view.Fields) != 5 {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if !view.HasVisibleErrors() {
		t.Fatalf("expected a visible error for name")
	}

	byName := map[string]formstate.FieldView{}
	for _, field := range view.Fields {
		byName[field.Field.Name] = field
	}
	if byName[profile.FieldName].Error != "Name is required" {
		t.Fatalf("expected name error in view, got %q", byName[profile.FieldName].Error)
	}
	if byName[profile.FieldAddress].Error != "" {
		t.Fatalf("untouched address must not show an error")
	}
	hobbies := byName[profile.FieldHobbies]
	if !hobbies.Selected("sports") || hobbies.Selected("music") {
		t.Fatalf("unexpected hobby selection: %v", hobbies.Values)
	}
}
