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

// Package async provides a single-assignment, observable operation
// primitive: a future that tracks work which may complete synchronously or
// asynchronously, on any goroutine, exactly once.
//
// An Operation moves through the statuses:
//
//	Created -> Scheduled -> Running -> RanToCompletion | Canceled | Faulted
//
// The Scheduled and Running stops are optional producer-side narration; the
// terminal stop is mandatory and unique. Every transition is a single
// atomic compare-and-swap on one status word, so observing and settling an
// operation is lock-free. Once a terminal status is published, the status,
// result, and error of the operation never change again.
//
// Consumers observe an operation three ways, freely mixed:
//
// Polling: the status queries(IsCompleted and friends) are cheap,
// thread-safe, and monotonic.
//
// Blocking: Wait, Done, and Result block on a lazily-created wait handle
// that's guaranteed to end up signaled even when its creation races the
// completion.
//
// Continuations: AddCompletionCallback registers a callback that runs on
// the goroutine that settles the operation, or immediately and
// synchronously on the registering goroutine if the operation is already
// settled. Continuations cannot be removed. The combinators(Then, Catch,
// CatchAs, Finally, Rebind, ThenOp) build new operations wired to a
// parent's outcome through that same registration protocol, converting
// callback panics into the child's Faulted outcome instead of letting them
// escape into the completer's call stack.
//
// The package owns no goroutines and no pool: work runs on whichever
// goroutines call into the API. Run and Delay are thin producers built
// entirely on the public surface; marshaling a callback onto a particular
// execution context is delegated to the optional Scheduler capability.
package async
