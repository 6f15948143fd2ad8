package parsers

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dephub/pipup-core/providers/fetchers"
)

var pipRequirementsFixture = []byte(`# production dependencies
requests >=2.26,<3
flask==2.0.1
celery[redis,msgpack] ~=5.1  # task queue
uvicorn
typing-extensions >=4.0; python_version < "3.10"
sampleproject @ https://files.example.com/sampleproject-2.0.0.tar.gz

-r dev-requirements.txt
git+https://github.com/example/tool.git
`)

func TestPipParserRequirements(t *testing.T) {
	fetcher := &fetchers.ByteMapFetcher{Files: map[string][]byte{
		"requirements.txt": pipRequirementsFixture,
	}}
	parser := NewPipParser(fetcher, "")

	requirements, err := parser.Requirements(context.Background())
	if err != nil {
		t.Fatalf("unexpected Requirements() error: %v", err)
	}

	expected := []string{
		"requests>=2.26,<3",
		"flask==2.0.1",
		"celery[redis,msgpack]~=5.1",
		"uvicorn",
		`typing-extensions>=4.0; python_version < "3.10"`,
		"sampleproject @ https://files.example.com/sampleproject-2.0.0.tar.gz",
	}
	if len(requirements) != len(expected) {
		t.Fatalf("expected %d requirements, got %d: %v", len(expected), len(requirements), requirements)
	}
	for i, line := range expected {
		if requirements[i].String() != line {
			t.Errorf("requirement %d = %q, expected %q", i, requirements[i], line)
		}
	}
}

func TestPipParserRequirements_Details(t *testing.T) {
	fetcher := &fetchers.ByteMapFetcher{Files: map[string][]byte{
		"requirements.txt": pipRequirementsFixture,
	}}
	parser := NewPipParser(fetcher, "requirements.txt")

	requirements, err := parser.Requirements(context.Background())
	if err != nil {
		t.Fatalf("unexpected Requirements() error: %v", err)
	}

	celery := requirements[2]
	if celery.Name != "celery" {
		t.Errorf("unexpected name %q", celery.Name)
	}
	if !reflect.DeepEqual(celery.Extras, []string{"redis", "msgpack"}) {
		t.Errorf("unexpected extras %v", celery.Extras)
	}
	if celery.Specifiers.String() != "~=5.1" {
		t.Errorf("unexpected specifiers %q", celery.Specifiers)
	}

	uvicorn := requirements[3]
	if len(uvicorn.Specifiers) != 0 || uvicorn.URL != "" {
		t.Errorf("expected an unrestricted requirement, got %+v", uvicorn)
	}

	typing := requirements[4]
	if typing.Marker != `python_version < "3.10"` {
		t.Errorf("unexpected marker %q", typing.Marker)
	}

	pinned := requirements[5]
	if pinned.URL != "https://files.example.com/sampleproject-2.0.0.tar.gz" {
		t.Errorf("unexpected URL %q", pinned.URL)
	}
	if len(pinned.Specifiers) != 0 {
		t.Errorf("direct references must not carry specifiers, got %q", pinned.Specifiers)
	}
}

func TestPipParserRequirements_Errors(t *testing.T) {
	fetcher := &fetchers.ByteMapFetcher{Files: map[string][]byte{
		"requirements.txt": []byte("broken requirement >=1.0\n"),
	}}

	_, err := NewPipParser(fetcher, "").Requirements(context.Background())
	if err == nil {
		t.Error("expected error on an unparseable requirement, got none")
	}

	_, err = NewPipParser(fetcher, "missing.txt").Requirements(context.Background())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, expected ErrFileNotFound", err)
	}
}

func TestParseRequirementLine_Errors(t *testing.T) {
	for _, line := range []string{
		"",
		">=1.0",
		"name[extra >=1.0",
		"name ==not.a.version",
	} {
		if _, err := ParseRequirementLine(line); err == nil {
			t.Errorf("expected error parsing %q, got none", line)
		}
	}
}
