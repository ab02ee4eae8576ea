// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import (
	"sync"
	"testing"
)

func TestNew_PreSignaled(t *testing.T) {
	e := New(true)
	// must not block
	e.Wait()

	select {
	case <-e.Done():
	default:
		t.Error("Done channel of a pre-signaled event is not closed")
	}
}

func TestEvent_SetReleasesWaiters(t *testing.T) {
	const waiters = 8

	e := New(false)

	select {
	case <-e.Done():
		t.Fatal("Done channel closed before Set")
	default:
	}

	var done sync.WaitGroup
	done.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer done.Done()
			e.Wait()
		}()
	}

	e.Set()
	done.Wait()

	// setting again must be a no-op, not a panic
	e.Set()
}

func TestEvent_Close(t *testing.T) {
	e := New(false)
	ch := e.Done()
	e.Close()

	defer func() {
		if recover() == nil {
			t.Error("Done on a closed event didn't panic")
		}
	}()

	// a channel handed out before closing stays valid
	select {
	case <-ch:
		t.Error("pending channel closed by Close")
	default:
	}

	e.Done()
}
