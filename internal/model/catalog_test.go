package model

import (
	"testing"
)

func TestResolve(t *testing.T) {
	spec, err := Resolve("llama3-8b")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Args.Dim != 4096 || spec.Args.Layers != 32 || spec.Args.KVHeads != 8 {
		t.Fatalf("spec args = %+v", spec.Args)
	}
	if spec.Instruct {
		t.Fatal("base model flagged as instruct")
	}

	spec, err = Resolve(" LLaMA3.1-8B-Instruct ")
	if err != nil {
		t.Fatal(err)
	}
	if !spec.Instruct || !spec.Args.UseScaledRope {
		t.Fatalf("spec = %+v", spec)
	}

	if _, err := Resolve("llama9-13b"); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestCatalogEntriesAreValid(t *testing.T) {
	for _, spec := range List() {
		args := spec.Args
		args.ApplyDefaults()
		if err := args.Validate(); err != nil {
			t.Errorf("%s: %v", spec.Name, err)
		}
		if spec.HuggingFaceRepo == "" {
			t.Errorf("%s: missing upstream repo", spec.Name)
		}
	}
}

func TestListIsSorted(t *testing.T) {
	specs := List()
	if len(specs) < 2 {
		t.Fatal("catalog unexpectedly small")
	}
	for i := 1; i < len(specs); i++ {
		if specs[i-1].Name > specs[i].Name {
			t.Fatalf("catalog not sorted: %q before %q", specs[i-1].Name, specs[i].Name)
		}
	}
}
