package syncutil_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/solechain/core/internal/syncutil"
)

func TestRWLock_MultipleReadersConcurrent(t *testing.T) {
	l := syncutil.NewRWLock()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.AcquireReader()
			time.Sleep(time.Millisecond)
			l.ReleaseReader()
		}()
	}
	wg.Wait()
}

func TestRWLock_WriterExcludesReaders(t *testing.T) {
	l := syncutil.NewRWLock()
	l.AcquireWriter()

	acquired := make(chan struct{})
	go func() {
		l.AcquireReader()
		close(acquired)
		l.ReleaseReader()
	}()

	select {
	case <-acquired:
		t.Fatal("reader acquired lock while writer held it")
	case <-time.After(20 * time.Millisecond):
	}

	l.ReleaseWriter()
	<-acquired
}

func TestRWLock_PromoteToWriterBlocksNewReaders(t *testing.T) {
	l := syncutil.NewRWLock()
	l.AcquireReader() // the promoter's own reader guard
	l.AcquireReader() // another reader the promotion has to wait for

	promoted := make(chan struct{})
	go func() {
		l.PromoteToWriter()
		close(promoted)
	}()

	// Give the promoting goroutine time to set the pending bit.
	time.Sleep(10 * time.Millisecond)

	newReaderAcquired := make(chan struct{})
	go func() {
		l.AcquireReader()
		close(newReaderAcquired)
	}()

	select {
	case <-newReaderAcquired:
		t.Fatal("a new reader acquired the lock while a promotion was pending")
	case <-time.After(20 * time.Millisecond):
	}

	l.ReleaseReader() // the other reader's guard; promotion can now proceed
	<-promoted

	l.DemoteToReader()
	<-newReaderAcquired
	l.ReleaseReader()
}

func TestRWLock_DemoteToReaderRestoresReaderState(t *testing.T) {
	l := syncutil.NewRWLock()
	l.AcquireReader()
	l.PromoteToWriter()
	l.DemoteToReader()

	// A second reader should be able to join immediately; no writer bits
	// should remain set.
	acquired := make(chan struct{})
	go func() {
		l.AcquireReader()
		close(acquired)
	}()
	select {
	case <-acquired:
	case <-time.After(50 * time.Millisecond):
		t.Fatal("reader could not join after demote-to-reader")
	}
	assert.True(t, true)
}
