package repository

import (
	"testing"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/tubebrief/tubebrief/internal/domain"
)

func TestPointID_Deterministic(t *testing.T) {
	a := PointID("blog-123_0")
	b := PointID("blog-123_0")
	if a != b {
		t.Errorf("same vector id mapped to different points: %s vs %s", a, b)
	}

	c := PointID("blog-123_1")
	if a == c {
		t.Error("distinct vector ids mapped to the same point")
	}
}

func TestBuildFilter_AllFields(t *testing.T) {
	filter := buildFilter(&SearchFilter{
		UserID:     "u1",
		YoutubeURL: "https://www.youtube.com/watch?v=abc",
		Type:       domain.VectorTypeTranscriptChunk,
	})
	if filter == nil {
		t.Fatal("expected non-nil filter")
	}
	if len(filter.Must) != 3 {
		t.Fatalf("expected 3 must conditions, got %d", len(filter.Must))
	}

	keys := map[string]string{}
	for _, cond := range filter.Must {
		field := cond.GetField()
		if field == nil {
			t.Fatal("expected field condition")
		}
		keys[field.Key] = field.GetMatch().GetKeyword()
	}

	if keys["user_id"] != "u1" {
		t.Errorf("user_id condition = %q", keys["user_id"])
	}
	if keys["youtube_url"] != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("youtube_url condition = %q", keys["youtube_url"])
	}
	if keys["type"] != "transcript_chunk" {
		t.Errorf("type condition = %q", keys["type"])
	}
}

func TestBuildFilter_Empty(t *testing.T) {
	if f := buildFilter(&SearchFilter{}); f != nil {
		t.Errorf("expected nil filter for empty fields, got %v", f)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	in := &VectorPayload{
		VectorID:   "blog-1_4",
		UserID:     "u1",
		YoutubeURL: "https://www.youtube.com/watch?v=abc",
		VideoTitle: "Some Talk",
		Type:       domain.VectorTypeTranscriptChunk,
		ChunkIndex: 4,
		Text:       "chunk text here",
	}

	out := parsePayload(payloadToValues(in))
	if out == nil {
		t.Fatal("expected payload")
	}
	if *out != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestPayload_SummaryOmitsChunkIndex(t *testing.T) {
	values := payloadToValues(&VectorPayload{
		VectorID:   "blog-1",
		UserID:     "u1",
		YoutubeURL: "https://www.youtube.com/watch?v=abc",
		Type:       domain.VectorTypeSummary,
		Text:       "summary text",
	})

	if _, ok := values["chunk_index"]; ok {
		t.Error("summary payload must not carry chunk_index")
	}
	if values["type"].GetStringValue() != "summary" {
		t.Errorf("type = %q", values["type"].GetStringValue())
	}
}

func TestParsePayload_Nil(t *testing.T) {
	if p := parsePayload(nil); p != nil {
		t.Errorf("expected nil payload, got %+v", p)
	}
}

func TestParsePayload_PartialValues(t *testing.T) {
	p := parsePayload(map[string]*pb.Value{
		"vector_id": {Kind: &pb.Value_StringValue{StringValue: "blog-9"}},
		"type":      {Kind: &pb.Value_StringValue{StringValue: "summary"}},
	})
	if p.VectorID != "blog-9" || p.Type != domain.VectorTypeSummary {
		t.Errorf("unexpected payload: %+v", p)
	}
	if p.Text != "" || p.ChunkIndex != 0 {
		t.Errorf("missing fields should stay zero-valued: %+v", p)
	}
}
