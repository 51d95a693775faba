package domain

import (
	"encoding/json"
	"testing"
)

func TestTableNames(t *testing.T) {
	if got := (Account{}).TableName(); got != "accounts" {
		t.Errorf("Account table = %q", got)
	}
	if got := (History{}).TableName(); got != "histories" {
		t.Errorf("History table = %q", got)
	}
}

func TestQAPairJSONKeys(t *testing.T) {
	b, err := json.Marshal(QAPair{Question: "What is Go?", Answer: "A language."})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["q"] != "What is Go?" || m["a"] != "A language." {
		t.Errorf("unexpected keys: %v", m)
	}
}

func TestAccountHidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(Account{ID: "x", PasswordHash: "secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for k := range m {
		if k == "PasswordHash" || k == "passwordHash" || k == "password" {
			t.Errorf("password hash leaked under key %q", k)
		}
	}
}

func TestStudyKitEmpty(t *testing.T) {
	if !(StudyKit{}).Empty() {
		t.Error("zero kit should be empty")
	}
	if (StudyKit{Summary: "s"}).Empty() {
		t.Error("kit with summary should not be empty")
	}
	if (StudyKit{FAQs: []QAPair{{Question: "q", Answer: "a"}}}).Empty() {
		t.Error("kit with FAQs should not be empty")
	}
}
