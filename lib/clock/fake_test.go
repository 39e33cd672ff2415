// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_StandsStill(t *testing.T) {
	clock := Fake(epoch)
	if !clock.Now().Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", clock.Now(), epoch)
	}
	if !clock.Now().Equal(clock.Now()) {
		t.Error("fake clock moved without Advance")
	}
}

func TestFake_AdvanceAndSet(t *testing.T) {
	clock := Fake(epoch)

	clock.Advance(90 * time.Second)
	if want := epoch.Add(90 * time.Second); !clock.Now().Equal(want) {
		t.Errorf("after Advance Now() = %v, want %v", clock.Now(), want)
	}

	clock.Advance(-time.Hour)
	if want := epoch.Add(90*time.Second - time.Hour); !clock.Now().Equal(want) {
		t.Errorf("after negative Advance Now() = %v, want %v", clock.Now(), want)
	}

	target := epoch.AddDate(1, 0, 0)
	clock.Set(target)
	if !clock.Now().Equal(target) {
		t.Errorf("after Set Now() = %v, want %v", clock.Now(), target)
	}
}

func TestFake_ConcurrentAdvance(t *testing.T) {
	clock := Fake(epoch)

	var group sync.WaitGroup
	for range 50 {
		group.Add(1)
		go func() {
			defer group.Done()
			clock.Advance(time.Second)
			_ = clock.Now()
		}()
	}
	group.Wait()

	if want := epoch.Add(50 * time.Second); !clock.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", clock.Now(), want)
	}
}

func TestReal_Moves(t *testing.T) {
	clock := Real()
	before := time.Now()
	now := clock.Now()
	if now.Before(before) {
		t.Errorf("Real().Now() = %v is before %v", now, before)
	}
}
