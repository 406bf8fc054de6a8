package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"campusbot/internal/models"
)

func TestUpsertUserIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	user := models.TGUser{ID: 42, FullName: "Ada Lovelace"}

	created, err := m.UpsertUser(ctx, user)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert must report created")
	}

	user.FullName = "Ada L."
	user.Username = sql.NullString{String: "ada", Valid: true}
	created, err = m.UpsertUser(ctx, user)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("second upsert must not report created")
	}
	if m.UserCount() != 1 {
		t.Fatalf("user count = %d, want 1", m.UserCount())
	}
	got, ok := m.User(42)
	if !ok || got.FullName != "Ada L." || got.Username.String != "ada" {
		t.Fatalf("profile not refreshed: %+v", got)
	}
}

func TestCourseQueriesFilterAndOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.AddCourse(models.Course{ID: 3, FaTitle: "c3", OfferingSemester: sql.NullInt64{Int64: 1, Valid: true}, CourseType: models.CourseGeneral})
	m.AddCourse(models.Course{ID: 1, FaTitle: "c1", OfferingSemester: sql.NullInt64{Int64: 1, Valid: true}, CourseType: models.CourseSpecialized})
	m.AddCourse(models.Course{ID: 2, FaTitle: "c2", OfferingSemester: sql.NullInt64{Int64: 2, Valid: true}, CourseType: models.CourseGeneral})
	m.AddCourse(models.Course{ID: 4, FaTitle: "c4", CourseType: models.CourseGeneral})

	bySem, err := m.CoursesBySemester(ctx, 1)
	if err != nil {
		t.Fatalf("by semester: %v", err)
	}
	if len(bySem) != 2 || bySem[0].ID != 1 || bySem[1].ID != 3 {
		t.Fatalf("by semester = %+v", bySem)
	}

	byType, err := m.CoursesByType(ctx, int(models.CourseGeneral))
	if err != nil {
		t.Fatalf("by type: %v", err)
	}
	if len(byType) != 3 || byType[0].ID != 2 || byType[1].ID != 3 || byType[2].ID != 4 {
		t.Fatalf("by type = %+v", byType)
	}

	if _, found, err := m.CourseByID(ctx, 99); err != nil || found {
		t.Fatalf("missing course: found=%v err=%v", found, err)
	}
}

func TestPlacesByGroup(t *testing.T) {
	m := NewMemory()
	m.AddPlace(models.Place{ID: 1, Name: "dorm a", Group: models.GroupDormitory})
	m.AddPlace(models.Place{ID: 2, Name: "library", Group: models.GroupEducational})
	m.AddPlace(models.Place{ID: 3, Name: "dorm b", Group: models.GroupDormitory})

	places, err := m.PlacesByGroup(context.Background(), int(models.GroupDormitory))
	if err != nil {
		t.Fatalf("places: %v", err)
	}
	if len(places) != 2 || places[0].Name != "dorm a" || places[1].Name != "dorm b" {
		t.Fatalf("places = %+v", places)
	}
}

func TestTextByName(t *testing.T) {
	m := NewMemory()
	m.SetText("GROUPS", false, "pick a group")
	m.SetText("BACK_BUTTON", true, "Back")

	text, found, err := m.TextByName(context.Background(), "GROUPS", false)
	if err != nil || !found || text != "pick a group" {
		t.Fatalf("got %q found=%v err=%v", text, found, err)
	}
	if _, found, _ := m.TextByName(context.Background(), "GROUPS", true); found {
		t.Fatal("button namespace must be separate")
	}
}

func TestFailPropagates(t *testing.T) {
	m := NewMemory()
	m.Fail = errors.New("down")
	if _, err := m.Phones(context.Background()); !errors.Is(err, m.Fail) {
		t.Fatalf("err = %v", err)
	}
	if _, err := m.UpsertUser(context.Background(), models.TGUser{ID: 1}); !errors.Is(err, m.Fail) {
		t.Fatalf("err = %v", err)
	}
}
