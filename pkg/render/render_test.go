package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/render"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, formstate.View, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(stubRenderer{name: "tui"}); err != nil {
		t.Fatalf("register tui: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("register html: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("html") || registry.Has("json") {
		t.Fatalf("unexpected Has results")
	}

	renderer, err := registry.Get("tui")
	if err != nil || renderer.Name() != "tui" {
		t.Fatalf("get tui: %v", err)
	}
	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.Hidden("_csrf", "token123"),
		render.Hidden("attempt", 2),
		render.Hidden("existing", "override"),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "override",
		"_csrf":    "token123",
		"attempt":  "2",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "attempt", Value: "2"},
		{Name: "existing", Value: "override"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	if render.SortedHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
