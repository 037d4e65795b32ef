package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nerdneilsfield/go-faker-file/pkg/fakefile"
	"github.com/nerdneilsfield/go-faker-file/pkg/storage"
)

// fakeStorage 记录 Unlink 调用，可按文件名注入失败
type fakeStorage struct {
	storage.FileSystem
	mu       sync.Mutex
	unlinked []string
	failOn   map[string]bool
}

func (s *fakeStorage) Unlink(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlinked = append(s.unlinked, filename)
	if s.failOn[filename] {
		return errors.New("permission denied")
	}
	return nil
}

func newFile(s storage.Storage, path string) *fakefile.File {
	return &fakefile.File{Path: path, Data: &fakefile.Data{Filename: "/root/" + path, Storage: s}}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := &fakeStorage{}
	r := New(zap.NewNop())

	f := newFile(st, "tmp/a.txt")
	r.Add(f)

	got, ok := r.Search("tmp/a.txt")
	require.True(t, ok)
	assert.Same(t, f, got)

	_, ok = r.Search("TMP/A.TXT")
	assert.False(t, ok, "search is case sensitive")

	assert.True(t, r.Remove(ctx, f))
	_, ok = r.Search("tmp/a.txt")
	assert.False(t, ok)
	assert.Equal(t, []string{"/root/tmp/a.txt"}, st.unlinked)
}

func TestAddIsIdempotent(t *testing.T) {
	r := New(nil)
	f := newFile(&fakeStorage{}, "tmp/a.txt")
	r.Add(f)
	r.Add(f)
	r.Add(newFile(&fakeStorage{}, "tmp/a.txt"))
	assert.Equal(t, 1, r.Len())
}

func TestRemoveTwice(t *testing.T) {
	ctx := context.Background()
	st := &fakeStorage{}
	r := New(nil)
	r.Add(newFile(st, "tmp/a.txt"))

	assert.True(t, r.RemovePath(ctx, "tmp/a.txt"))
	assert.False(t, r.RemovePath(ctx, "tmp/a.txt"))
	assert.False(t, r.Remove(ctx, nil))
	assert.Len(t, st.unlinked, 1)
}

func TestRemoveLogsUnlinkFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	st := &fakeStorage{failOn: map[string]bool{"/root/tmp/a.txt": true}}
	r := New(zap.New(core))
	r.Add(newFile(st, "tmp/a.txt"))

	assert.True(t, r.RemovePath(context.Background(), "tmp/a.txt"))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to unlink file").Len())
}

func TestCleanUpIsExhaustive(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	st := &fakeStorage{failOn: map[string]bool{
		"/root/tmp/3.txt": true,
		"/root/tmp/7.txt": true,
	}}
	r := New(zap.New(core))
	for i := 0; i < 10; i++ {
		r.Add(newFile(st, fmt.Sprintf("tmp/%d.txt", i)))
	}
	// 没有存储引用的条目同样会被清理
	r.Add(&fakefile.File{Path: "tmp/orphan.txt"})

	r.CleanUp(context.Background())

	assert.Equal(t, 0, r.Len())
	assert.Len(t, st.unlinked, 10)
	assert.Equal(t, 3, logs.Len())
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := &fakeStorage{}
	r := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := newFile(st, fmt.Sprintf("tmp/%d.txt", i))
			r.Add(f)
			_, _ = r.Search(f.Path)
			if i%2 == 0 {
				r.Remove(ctx, f)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
	r.CleanUp(ctx)
	assert.Equal(t, 0, r.Len())
}

func TestInitIsSingleton(t *testing.T) {
	r := Init(nil)
	assert.Same(t, r, Init(nil))

	// 后续带日志记录器的 Init 替换先前的空记录器
	core, logs := observer.New(zap.ErrorLevel)
	assert.Same(t, r, Init(zap.New(core)))

	st := &fakeStorage{failOn: map[string]bool{"/root/tmp/init.txt": true}}
	r.Add(newFile(st, "tmp/init.txt"))
	assert.True(t, r.RemovePath(context.Background(), "tmp/init.txt"))
	assert.Equal(t, 1, logs.FilterMessage("failed to unlink file").Len())
}
