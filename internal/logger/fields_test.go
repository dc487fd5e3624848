package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  listing  ", Value: "  posts  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "listing" || fields[0].String != "posts" {
		t.Fatalf("unexpected listing field: %+v", fields[0])
	}

	empty := StringFields()
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithFields(logger, zap.String("foo", "bar"))
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx["foo"] != "bar" {
		t.Fatalf("expected field to be bar, got %q", ctx["foo"])
	}

	enriched = WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Ensure logging with the fallback logger does not panic.
	enriched.Info("another log")
}

func TestListingFields(t *testing.T) {
	fields := ListingFields("  tutors  ", "/teachers")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldListing || fields[0].String != "tutors" {
		t.Fatalf("unexpected listing field: %+v", fields[0])
	}

	if fields[1].Key != FieldEndpoint || fields[1].String != "/teachers" {
		t.Fatalf("unexpected endpoint field: %+v", fields[1])
	}

	empty := ListingFields("", "")
	if len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithListingAndUser(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithUser(WithListing(logger, "posts", "/posts"), "sam@example.com")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldListing] != "posts" {
		t.Fatalf("expected listing field to be posts, got %q", ctx[FieldListing])
	}

	if ctx[FieldEndpoint] != "/posts" {
		t.Fatalf("expected endpoint field to be /posts, got %q", ctx[FieldEndpoint])
	}

	if ctx[FieldUser] != "sam@example.com" {
		t.Fatalf("expected user field, got %q", ctx[FieldUser])
	}

	enriched = WithListing(nil, "posts", "")
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	enriched.Info("another log")
}
