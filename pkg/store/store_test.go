package store

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/pylon/pkg/assembly"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)

func testOptions(name string) pipeline.Options {
	return pipeline.Options{
		Name: name,
		Sections: geometry.Sections{
			Heights:     []float64{40, 40},
			Diameters:   []float64{6, 5, 4},
			Thicknesses: []float64{0.04, 0.03},
		},
		HubHeight: 82.5,
		RNA:       assembly.PointMass{Mass: 3.5e5, Offset: inertia.Vec3{-5, 0, 2.3}},
		LoadCases: []pipeline.LoadCase{
			{Name: "operating", WindSpeed: 11.7, Force: inertia.Vec3{1.3e6, 0, 0}},
		},
		Modes: 4,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	var ids []string
	for i := range 3 {
		rec := &Record{Name: fmt.Sprintf("run-%d", i), Options: testOptions("t")}
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if rec.ID == "" || rec.CreatedAt.IsZero() {
			t.Fatalf("Save did not assign id/time: %+v", rec)
		}
		ids = append(ids, rec.ID)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "run-1" {
		t.Errorf("Get name = %q, want run-1", got.Name)
	}
	got.Name = "changed"
	if again, _ := s.Get(ctx, ids[1]); again.Name != "run-1" {
		t.Error("Get returned a shared record")
	}

	list, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != ids[2] || list[1].ID != ids[1] {
		t.Errorf("List(2) order wrong: %v", list)
	}
	if all, _ := s.List(ctx, 0); len(all) != 3 {
		t.Errorf("List(0) = %d records, want 3", len(all))
	}
}

func TestMemoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(missing) error = %v, want NOT_FOUND", err)
	}
	if err := s.Save(ctx, &Record{ID: "not-a-uuid"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(bad id) error = %v, want INVALID_INPUT", err)
	}
	if err := s.Save(ctx, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := &Record{Name: "first"}
	s.Save(ctx, rec)
	rec.Name = "second"
	s.Save(ctx, rec)

	list, _ := s.List(ctx, 0)
	if len(list) != 1 || list[0].Name != "second" {
		t.Errorf("List after overwrite = %v", list)
	}
}

func TestNewRecord(t *testing.T) {
	opts := testOptions("tower")
	res := &pipeline.Result{
		Name: "tower",
		Cases: []pipeline.CaseResult{
			{Name: "operating"},
			{Name: "storm", Error: "singular stiffness matrix"},
		},
	}
	rec := NewRecord(opts, res)
	if rec.Name != "tower" || rec.ID == "" {
		t.Errorf("NewRecord() = %+v", rec)
	}
	if rec.Summary.Cases != 2 {
		t.Errorf("Summary.Cases = %d, want 2", rec.Summary.Cases)
	}
	want := map[string]string{"storm": "singular stiffness matrix"}
	if !reflect.DeepEqual(rec.Failed, want) {
		t.Errorf("Failed = %v, want %v", rec.Failed, want)
	}

	if rec := NewRecord(opts, nil); rec.Failed != nil || rec.Summary.Cases != 0 {
		t.Errorf("NewRecord(nil result) = %+v", rec)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	rec := &Record{
		ID:        "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Name:      "tower",
		Options:   testOptions("tower"),
		Summary:   pipeline.Summary{Name: "tower", TowerMass: 2.5e5, Frequency: 0.31},
		Failed:    map[string]string{"storm": "diverged"},
	}
	doc, err := toDocument(rec)
	if err != nil {
		t.Fatalf("toDocument: %v", err)
	}
	if doc.ID != rec.ID {
		t.Errorf("document _id = %q", doc.ID)
	}

	back, err := fromDocument(doc)
	if err != nil {
		t.Fatalf("fromDocument: %v", err)
	}
	if !reflect.DeepEqual(back, rec) {
		t.Errorf("round trip changed record:\n got %+v\nwant %+v", back, rec)
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("NewMongoStore() error = %v, want CONFIGURATION_ERROR", err)
	}
}
