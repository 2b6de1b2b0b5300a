package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"

	"github.com/simba-tools/simbadesk/config"
)

// scriptedSurface counts resolver interactions against a fixed set of
// present selectors.
type scriptedSurface struct {
	present  map[string]bool
	probeErr map[string]error
	stillUp  bool

	probes         []string
	checkboxClicks int
	iframeClicks   int
	wanders        int
	navWaits       int
	redetects      int
}

func (s *scriptedSurface) probe(sel string) (bool, *rod.Element, error) {
	s.probes = append(s.probes, sel)
	if err := s.probeErr[sel]; err != nil {
		return false, nil, err
	}
	return s.present[sel], nil, nil
}

func (s *scriptedSurface) clickCheckbox(context.Context, *rod.Element) error {
	s.checkboxClicks++
	return nil
}

func (s *scriptedSurface) clickIframe(*rod.Element) {
	s.iframeClicks++
}

func (s *scriptedSurface) wander(context.Context) {
	s.wanders++
}

func (s *scriptedSurface) awaitNavigation(context.Context) {
	s.navWaits++
}

func (s *scriptedSurface) challengePresent() bool {
	s.redetects++
	return s.stillUp
}

// fastResolveConfig keeps the resolver's waits near zero for tests.
func fastResolveConfig() config.ScrapeConfig {
	return config.ScrapeConfig{
		ChallengeGrace:      time.Millisecond,
		InteractionPause:    time.Millisecond,
		ResolveNavTimeout:   time.Millisecond,
		ResolveSettle:       time.Millisecond,
		UnresolvedExtraWait: time.Millisecond,
	}
}

func TestResolveCheckboxChallenge(t *testing.T) {
	surface := &scriptedSurface{
		present: map[string]bool{`input[type="checkbox"]`: true},
	}
	r := NewResolver(fastResolveConfig(), NewHumanizer())

	still := r.run(context.Background(), surface)

	if still {
		t.Error("cleared challenge reported as still present")
	}
	if surface.checkboxClicks != 1 {
		t.Errorf("expected exactly one checkbox click, got %d", surface.checkboxClicks)
	}
	if surface.iframeClicks != 0 {
		t.Errorf("expected no iframe clicks, got %d", surface.iframeClicks)
	}
	if surface.redetects != 1 {
		t.Errorf("expected one re-detection, got %d", surface.redetects)
	}
}

func TestResolveNoKnownLocators(t *testing.T) {
	surface := &scriptedSurface{present: map[string]bool{}}
	r := NewResolver(fastResolveConfig(), NewHumanizer())

	r.run(context.Background(), surface)

	if surface.checkboxClicks != 0 || surface.iframeClicks != 0 {
		t.Errorf("no locators should mean no interactions, got %d checkbox / %d iframe clicks",
			surface.checkboxClicks, surface.iframeClicks)
	}
	if surface.redetects != 1 {
		t.Errorf("detection must still re-run, got %d re-detections", surface.redetects)
	}
	if len(surface.probes) != len(challengeSelectors) {
		t.Errorf("expected all %d selectors probed, got %d", len(challengeSelectors), len(surface.probes))
	}
}

func TestResolveIframeChallenge(t *testing.T) {
	surface := &scriptedSurface{
		present: map[string]bool{`iframe[src*="cloudflare"]`: true},
	}
	r := NewResolver(fastResolveConfig(), NewHumanizer())

	r.run(context.Background(), surface)

	if surface.iframeClicks != 1 {
		t.Errorf("expected one iframe click, got %d", surface.iframeClicks)
	}
	if surface.checkboxClicks != 0 {
		t.Errorf("expected no checkbox clicks, got %d", surface.checkboxClicks)
	}
}

func TestResolveSweepsAllSelectorsInOrder(t *testing.T) {
	surface := &scriptedSurface{present: map[string]bool{}}
	r := NewResolver(fastResolveConfig(), NewHumanizer())

	r.run(context.Background(), surface)

	for i, sel := range challengeSelectors {
		if surface.probes[i] != sel {
			t.Errorf("probe %d: got %q, want %q", i, surface.probes[i], sel)
		}
	}
}

func TestResolveProbeErrorSkipsSelector(t *testing.T) {
	surface := &scriptedSurface{
		present:  map[string]bool{`input[type="checkbox"]`: true},
		probeErr: map[string]error{`input[type="checkbox"]`: errors.New("detached")},
	}
	r := NewResolver(fastResolveConfig(), NewHumanizer())

	r.run(context.Background(), surface)

	if surface.checkboxClicks != 0 {
		t.Errorf("failed probe must not be interacted with, got %d clicks", surface.checkboxClicks)
	}
	if len(surface.probes) != len(challengeSelectors) {
		t.Error("a failed probe must not abort the sweep")
	}
}

func TestResolveStillPresent(t *testing.T) {
	surface := &scriptedSurface{present: map[string]bool{}, stillUp: true}
	r := NewResolver(fastResolveConfig(), NewHumanizer())

	if still := r.run(context.Background(), surface); !still {
		t.Error("surviving challenge must be reported as still present")
	}
}

func TestResolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	surface := &scriptedSurface{
		present: map[string]bool{`input[type="checkbox"]`: true},
	}
	cfg := fastResolveConfig()
	cfg.ChallengeGrace = time.Minute
	r := NewResolver(cfg, NewHumanizer())

	if still := r.run(ctx, surface); !still {
		t.Error("canceled attempt must report the challenge as still present")
	}
	if surface.checkboxClicks != 0 {
		t.Errorf("canceled attempt must not interact, got %d clicks", surface.checkboxClicks)
	}
}
