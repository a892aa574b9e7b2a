// Package onset selects caption time points from detected musical onsets.
//
// The provider hands over onset times and strengths; this package pairs them
// into a Set and chooses exactly one time point per text line. Selection is a
// pure function of its inputs and never fails: sparse or missing onset data is
// covered by one of three fallback policies.
//
// # Strategies
//
//  1. Uniform - no onsets at all. Lines are spread evenly between the lead-in
//     and the lead-out padding of the track.
//  2. Padded - no more onsets than lines. Every onset is used and the missing
//     slots are filled with interior points of an even spread, then the merged
//     list is sorted and truncated to the line count.
//  3. Segmented - more onsets than lines. The track is cut into equal segments
//     and each segment contributes its strongest onset, or its midpoint when it
//     holds none.
//
// Times returned by Select are full precision. Rounding belongs to the
// serialization layer.
package onset
