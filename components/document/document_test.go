package document

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.objects[aws.ToString(params.Key)]))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := new(s3.ListObjectsV2Output)
	for _, key := range []string{"docs/", "docs/a.txt", "docs/b.pdf", "other/c.txt"} {
		if strings.HasPrefix(key, aws.ToString(params.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
		}
	}
	return out, nil
}

func TestS3Prefix(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"docs/a.txt": "bonjour"}}
	if _, err := NewS3Prefix(client, "bucket/docs", nil); err == nil {
		t.Error("want error for uri without scheme")
	}
	lister, err := NewS3Prefix(client, "s3://bucket/docs/", func(key string) bool {
		return strings.HasSuffix(key, ".txt")
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	sources, err := lister.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Name() != "s3://bucket/docs/a.txt" {
		t.Fatalf("unexpected sources %v", sources)
	}
	doc, err := NewLoader().Load(ctx, sources[0])
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "bonjour" || doc.Meta["filename"] != "a.txt" {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := EscapeMarkdown("a|b*c"); got != `a\|b\*c` {
		t.Errorf("got %s", got)
	}
	if got := StripUnprintable("a\x00b\nc"); got != "ab\nc" {
		t.Errorf("got %q", got)
	}
}
