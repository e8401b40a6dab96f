package model

import "testing"

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeJSONPlain(t *testing.T) {
	var out sample
	if err := DecodeJSON(`{"name":"x","count":2}`, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Name != "x" || out.Count != 2 {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestDecodeJSONFenced(t *testing.T) {
	raw := "```json\n{\"name\":\"fenced\",\"count\":1}\n```"
	var out sample
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Name != "fenced" {
		t.Errorf("unexpected decode result: %+v", out)
	}
}

func TestDecodeJSONInvalid(t *testing.T) {
	var out sample
	if err := DecodeJSON("not json at all", &out); err == nil {
		t.Fatal("expected decode error")
	}
}
