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

package status

import "sync/atomic"

var (
	cas  = atomic.CompareAndSwapUint32
	load = atomic.LoadUint32
)

// Code is the lifecycle code of an operation.
// The declaration order defines the legal transition order: a non-terminal
// transition is legal only towards a strictly greater code.
type Code uint32

const (
	Created Code = iota
	Scheduled
	Running
	RanToCompletion
	Canceled
	Faulted
)

// the code's related values and constants, using 3 bits(the [1st : 3rd] bits)
const (
	// codeBitsMask is &-ed with the status word to get the code value.
	codeBitsMask uint32 = 1<<3 - 1
)

// the flags' related values and constants, using 5 bits(the [4th : 8th] bits)
const (
	// starting with a shift amount of 3, which is the number of bits used by
	// the code section.

	// flagReserved is set by the single winning terminal transition, before
	// the result of the operation is stored.
	flagReserved uint32 = 1 << (iota + 3)

	// flagCompleted is set, together with the final code, after the result
	// of the operation has been stored.
	flagCompleted

	// flagSync marks that the terminal transition happened on the same call
	// stack that created the operation.
	flagSync

	// flagDisposed poisons the word after disposal.
	flagDisposed

	// FlagDoNotDispose marks shared instances whose disposal is a no-op.
	// It's the only flag that's set at construction time.
	FlagDoNotDispose
)

// Word holds the packed lifecycle value of a single operation.
// It's read and updated atomically.
// The zero value is a live word in the Created code.
type Word uint32

// NewWord returns a word initialized with the provided construction flags.
// Only FlagDoNotDispose is meaningful here.
func NewWord(flags uint32) Word {
	return Word(flags & FlagDoNotDispose)
}

// NewSettledWord returns a word that's already completed with code c.
// It should be used only on operations that haven't been shared yet.
func NewSettledWord(c Code, flags uint32) Word {
	return Word(uint32(c) | flagReserved | flagCompleted | flagSync | (flags & FlagDoNotDispose))
}

// Load returns the current raw value of the word.
func (w *Word) Load() uint32 {
	return load((*uint32)(w))
}

// TryAdvance advances the code section to c, only if no terminal transition
// has been reserved or published yet, and c is strictly greater than the
// current code.
// It performs a single CAS attempt: losing any race reports false, and the
// caller must treat that as "the operation has already moved on".
func (w *Word) TryAdvance(c Code) bool {
	cs := load((*uint32)(w))
	if cs&(flagReserved|flagCompleted) != 0 {
		return false
	}
	if uint32(c) <= cs&codeBitsMask {
		return false
	}
	ns := cs&^codeBitsMask | uint32(c)
	return cas((*uint32)(w), cs, ns)
}

// TryReserve claims the right to settle the word.
// Exactly one call per word ever returns true; the winner must store the
// operation's result then call Publish.
// It performs a single CAS attempt: if it loses the race, another terminal
// transition has already won, and this call reports failure, not a partial
// state.
func (w *Word) TryReserve() bool {
	cs := load((*uint32)(w))
	if cs&(flagReserved|flagCompleted) != 0 {
		return false
	}
	return cas((*uint32)(w), cs, cs|flagReserved)
}

// Publish installs the terminal code c and the completed bit(and the sync
// bit, if sync is true) in one atomic store.
// It must be called exactly once, by the caller whose TryReserve returned
// true, after the result of the operation has been stored.
func (w *Word) Publish(c Code, sync bool) {
	cs := load((*uint32)(w))
	if cs&flagReserved == 0 || cs&flagCompleted != 0 {
		panic("async: internal: publish without reservation")
	}
	ns := cs&^codeBitsMask | uint32(c) | flagCompleted
	if sync {
		ns |= flagSync
	}
	if !cas((*uint32)(w), cs, ns) {
		// between the reservation and here, the word is owned exclusively
		// by the reserving caller, so this should be impossible.
		panic("async: internal: unexpected status change")
	}
}

// TryDispose sets the disposed bit.
// It returns false if the word is flagged do-not-dispose, or if it's
// already disposed.
// The caller must have already checked that the word is completed.
func (w *Word) TryDispose() bool {
	for {
		cs := load((*uint32)(w))
		if cs&(FlagDoNotDispose|flagDisposed) != 0 {
			return false
		}
		if cas((*uint32)(w), cs, cs|flagDisposed) {
			return true
		}
	}
}

// CodeOf returns the code section of the raw word value u.
func CodeOf(u uint32) Code {
	return Code(u & codeBitsMask)
}

func IsCompleted(u uint32) bool {
	return u&flagCompleted != 0
}

func IsSync(u uint32) bool {
	return u&flagSync != 0
}

func IsDisposed(u uint32) bool {
	return u&flagDisposed != 0
}

func IsDoNotDispose(u uint32) bool {
	return u&FlagDoNotDispose != 0
}

func IsRanToCompletion(u uint32) bool {
	return IsCompleted(u) && CodeOf(u) == RanToCompletion
}

func IsCanceled(u uint32) bool {
	return IsCompleted(u) && CodeOf(u) == Canceled
}

func IsFaulted(u uint32) bool {
	return IsCompleted(u) && CodeOf(u) == Faulted
}
