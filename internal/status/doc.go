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

// Package status implements the packed status word of an operation.
//
// The whole lifecycle of an operation is encoded in a single uint32 value,
// so that any state observation or transition is a single atomic access.
// The word is split into two sections:
//
// The code section (the low 3 bits) holds the lifecycle code of the
// operation. The codes are ordered:
//
//	Created < Scheduled < Running < {RanToCompletion, Canceled, Faulted}
//
// and a non-terminal transition is legal only towards a strictly greater
// code. This is what allows a late TryAdvance(Running) call to race
// harmlessly against an early terminal transition: the terminal one always
// wins, and the late call simply reports false.
//
// The flags section holds the rest of the lifecycle bits:
//
// The reserved bit marks that some terminal transition has won the right to
// settle the word. Exactly one TryReserve call per word ever returns true.
// The winner stores the operation's result while holding the reservation,
// then calls Publish, which installs the terminal code together with the
// completed bit (and, optionally, the completedSynchronously bit) in one
// atomic store. Readers only trust the result fields after observing the
// completed bit, so the result is never seen half-written, and they never
// observe a terminal code without the completed bit.
//
// The disposed bit poisons the word after the owner releases the operation.
// The doNotDispose bit protects shared, process-wide instances from being
// disposed by any of their many consumers.
package status
