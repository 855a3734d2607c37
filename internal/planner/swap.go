package planner

import "slices"

// SwapPriorities promotes loserID over mainID.
//
// The loser is forced to PriorityMustSee. The main selection drops to the most
// important of PriorityWant and PriorityMaybe that no other conflict of the
// loser already holds, or PriorityWant when both are taken. The returned Bias
// must be passed to the next SelectWinners call so the loser wins that round
// regardless of ordinary tie-breaks.
//
// ok is false, and sels is returned unchanged, when either id is not selected
// or both ids are the same.
func SwapPriorities(sels []Selection, mainID, loserID string) (out []Selection, bias *Bias, ok bool) {
	mi, li := indexOf(sels, mainID), indexOf(sels, loserID)
	if mi < 0 || li < 0 || mi == li {
		return sels, nil, false
	}

	out = slices.Clone(sels)
	loser := out[li]

	taken := map[Priority]bool{PriorityMustSee: true}
	for _, s := range ConflictsWith(loser.Item, out) {
		if s.ID != mainID {
			taken[s.Priority] = true
		}
	}
	next := PriorityWant
	for _, p := range Priorities {
		if !taken[p] {
			next = p
			break
		}
	}

	out[li].Priority = PriorityMustSee
	out[mi].Priority = next
	return out, &Bias{PromotedID: loserID}, true
}
