package sim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoop_DrivesSpringToRest(t *testing.T) {
	g := NewWithT(t)

	loop := NewLoop(time.Millisecond, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	opts := spring.DefaultOptions()
	opts.Target = dynamo.Scalar(100)
	opts.Scheduler = loop
	frames := 0
	opts.OnFrame = func(dynamo.Value, *spring.Spring) { frames++ }
	s, err := spring.New(opts)
	g.Expect(err).NotTo(HaveOccurred())

	loop.Do(func() { s.Start() })
	g.Expect(loop.Len()).To(Equal(1))

	resting := func() bool {
		var r bool
		loop.Do(func() { r = s.Resting() })
		return r
	}
	g.Eventually(resting).WithTimeout(10 * time.Second).WithPolling(10 * time.Millisecond).Should(BeTrue())

	loop.Do(func() {
		g.Expect(s.Value().Float()).To(Equal(100.0))
		g.Expect(frames).To(BeNumerically(">", 0))
	})
	g.Expect(loop.Len()).To(BeZero())

	cancel()
	g.Eventually(done).Should(Receive(MatchError(context.Canceled)))
}

func TestLoop_PauseFromCallback(t *testing.T) {
	g := NewWithT(t)
	loop := NewLoop(time.Millisecond, quietLogger())

	opts := spring.DefaultOptions()
	opts.Target = dynamo.Scalar(100)
	opts.Scheduler = loop
	opts.OnFrame = func(_ dynamo.Value, s *spring.Spring) { s.Pause() }
	s, err := spring.New(opts)
	g.Expect(err).NotTo(HaveOccurred())

	s.Start()
	loop.Frame()

	g.Expect(s.Resting()).To(BeTrue())
	g.Expect(loop.Len()).To(BeZero())
	g.Expect(s.Position()).To(BeNumerically(">", 0))
}

func TestLoop_Defaults(t *testing.T) {
	loop := NewLoop(0, nil)
	if loop.interval != DefaultInterval {
		t.Errorf("expected default interval, got %v", loop.interval)
	}
	if loop.logger == nil {
		t.Error("expected default logger")
	}
}

func TestLoop_RunEndsWhenCompleteCancels(t *testing.T) {
	g := NewWithT(t)
	loop := NewLoop(time.Millisecond, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := spring.DefaultOptions()
	opts.Target = dynamo.Scalar(10)
	opts.Scheduler = loop
	completes := 0
	opts.OnComplete = func(dynamo.Value, *spring.Spring) {
		completes++
		cancel()
	}
	s, err := spring.New(opts)
	g.Expect(err).NotTo(HaveOccurred())
	loop.Do(func() { s.Start() })

	g.Expect(loop.Run(ctx)).To(MatchError(context.Canceled))
	g.Expect(completes).To(Equal(1))
	g.Expect(s.Value().Float()).To(Equal(10.0))
	g.Expect(loop.Len()).To(BeZero())
}
