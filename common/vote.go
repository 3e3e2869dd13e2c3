package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// EpochVote accumulates weighted submissions for a single voting epoch.
// Round is the abort generation: bumping it invalidates every tally of the
// previous round without touching other epochs.
type EpochVote struct {
	// Abort generation counter.
	Round int

	// Sum of weights submitted in the current round.
	TotalWeight int

	// Distinct submission digests of the current round.
	Digests [][]byte

	// Accumulated weight per digest, same indexing as Digests.
	Weights []int

	// Digest currently holding the most weight.
	MostVoted []byte

	// Validators that voted in the current round.
	Voters [][]byte
}

// Vote outcomes returned by SubmitVote.
const (
	// VoteThresholdNotReached means the submitted weight does not pass the
	// majority threshold yet.
	VoteThresholdNotReached = 1
	// VoteReachingConsensus means the threshold is passed but no single
	// digest leads strictly above it, and the unvoted weight can still
	// flip the leader.
	VoteReachingConsensus = 2
	// VoteConsensusReached means the leading digest holds strictly more
	// weight than the threshold.
	VoteConsensusReached = 3
	// VoteRoundAbort means the remaining unvoted weight can no longer lift
	// the leader above the threshold; the round was reset.
	VoteRoundAbort = 4
)

const (
	// ErrEpochNotVotable is thrown when an epoch is not ahead of the last
	// executed one or is not aligned to the submission period.
	ErrEpochNotVotable = "epoch is not votable"
	// ErrDoubleVote is thrown when a validator votes twice in one round.
	ErrDoubleVote = "validator has already voted in this round"
	// ErrNoSubmission is thrown when vote state is requested for an epoch
	// that has no submissions.
	ErrNoSubmission = "no submission for epoch"
)

const (
	lastExecutedKey = "lastExecutedEpoch"
	votePrefix      = 'v'
	queuePrefix     = 'q'
)

// CheckVotableEpoch panics with ErrEpochNotVotable unless epoch lies ahead of
// the last executed epoch on the period lattice: epoch > lastExecuted and
// epoch is a whole multiple of the period.
func CheckVotableEpoch(ctx storage.Context, epoch, period int) {
	if epoch <= LastExecutedEpoch(ctx) || epoch%period != 0 {
		panic(ErrEpochNotVotable)
	}
}

// SubmitVote tallies a weighted vote of a validator for a submission digest
// at the given epoch and derives the round outcome with
// threshold = totalWeight*majority/100:
//
//	total submitted ≤ threshold            -> VoteThresholdNotReached
//	most voted      >  threshold           -> VoteConsensusReached
//	threshold-mostVoted ≥ totalWeight-total -> VoteRoundAbort
//	otherwise                              -> VoteReachingConsensus
//
// A repeated vote of one validator within one round panics with ErrDoubleVote.
// On VoteRoundAbort the round generation is advanced and all tallies of the
// aborted round are discarded; a later re-vote starts fresh.
func SubmitVote(ctx storage.Context, epoch int, voter []byte, weight int, digest []byte, totalWeight, majority int) int {
	vote := getEpochVote(ctx, epoch)

	for i := range vote.Voters {
		if BytesEqual(vote.Voters[i], voter) {
			panic(ErrDoubleVote)
		}
	}
	vote.Voters = append(vote.Voters, voter)
	vote.TotalWeight += weight

	found := false
	for i := range vote.Digests {
		if BytesEqual(vote.Digests[i], digest) {
			vote.Weights[i] += weight
			found = true
			break
		}
	}
	if !found {
		vote.Digests = append(vote.Digests, digest)
		vote.Weights = append(vote.Weights, weight)
	}

	mostVoted := 0
	for i := range vote.Digests {
		if vote.Weights[i] > mostVoted {
			mostVoted = vote.Weights[i]
			vote.MostVoted = vote.Digests[i]
		}
	}

	threshold := totalWeight * majority / 100
	var outcome int
	switch {
	case vote.TotalWeight <= threshold:
		outcome = VoteThresholdNotReached
	case mostVoted > threshold:
		outcome = VoteConsensusReached
	case threshold-mostVoted >= totalWeight-vote.TotalWeight:
		outcome = VoteRoundAbort
	default:
		outcome = VoteReachingConsensus
	}

	if outcome == VoteRoundAbort {
		vote = newEpochVote(vote.Round + 1)
	}
	SetSerialized(ctx, voteKey(epoch), vote)

	return outcome
}

// MostVotedSubmission returns the leading digest of the epoch's current round
// and its accumulated weight.
func MostVotedSubmission(ctx storage.Context, epoch int) ([]byte, int) {
	data := storage.Get(ctx, voteKey(epoch))
	if data == nil {
		panic(ErrNoSubmission)
	}
	vote := std.Deserialize(data.([]byte)).(EpochVote)

	mostVoted := 0
	for i := range vote.Weights {
		if vote.Weights[i] > mostVoted {
			mostVoted = vote.Weights[i]
		}
	}
	return vote.MostVoted, mostVoted
}

// VoteRound returns the abort generation of the epoch's voting.
func VoteRound(ctx storage.Context, epoch int) int {
	data := storage.Get(ctx, voteKey(epoch))
	if data == nil {
		return 0
	}
	return std.Deserialize(data.([]byte)).(EpochVote).Round
}

// LastExecutedEpoch returns the epoch whose checkpoint was executed last,
// 0 before any execution.
func LastExecutedEpoch(ctx storage.Context) int {
	data := storage.Get(ctx, lastExecutedKey)
	if data != nil {
		return data.(int)
	}
	return 0
}

// MarkExecutedEpoch records the epoch as executed, drops it from the
// executable queue and discards its vote state. The epoch must be the direct
// successor slot of the previously executed epoch.
func MarkExecutedEpoch(ctx storage.Context, epoch int) {
	storage.Put(ctx, lastExecutedKey, epoch)
	storage.Delete(ctx, queueKey(epoch))
	storage.Delete(ctx, voteKey(epoch))
}

// EnqueueEpoch adds an epoch that reached consensus ahead of its turn to the
// executable queue, tagged with the submission period it was voted under.
func EnqueueEpoch(ctx storage.Context, epoch, period int) {
	storage.Put(ctx, queueKey(epoch), period)
}

// NextExecutableEpoch returns the smallest queued epoch and whether it is
// ready to execute, i.e. equals lastExecutedEpoch+period. Callers loop it
// after every execution to drain consecutive ready epochs.
func NextExecutableEpoch(ctx storage.Context, period int) (int, bool) {
	it := storage.Find(ctx, []byte{queuePrefix}, storage.KeysOnly|storage.RemovePrefix)
	if iterator.Next(it) {
		epoch := FromFixedWidth(iterator.Value(it).([]byte))
		return epoch, epoch == LastExecutedEpoch(ctx)+period
	}
	return 0, false
}

// ExecutableQueue returns the queued epochs in ascending order, empty when
// nothing waits for execution.
func ExecutableQueue(ctx storage.Context) []int {
	res := []int{}
	it := storage.Find(ctx, []byte{queuePrefix}, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		res = append(res, FromFixedWidth(iterator.Value(it).([]byte)))
	}
	return res
}

func getEpochVote(ctx storage.Context, epoch int) EpochVote {
	data := storage.Get(ctx, voteKey(epoch))
	if data != nil {
		return std.Deserialize(data.([]byte)).(EpochVote)
	}
	return newEpochVote(0)
}

func newEpochVote(round int) EpochVote {
	return EpochVote{
		Round:     round,
		Digests:   [][]byte{},
		Weights:   []int{},
		MostVoted: []byte{},
		Voters:    [][]byte{},
	}
}

func voteKey(epoch int) []byte {
	return append([]byte{votePrefix}, ToFixedWidth(epoch)...)
}

func queueKey(epoch int) []byte {
	return append([]byte{queuePrefix}, ToFixedWidth(epoch)...)
}
