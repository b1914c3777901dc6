package wire

import (
	"encoding/binary"
	"encoding/hex"
	"slices"

	"LoopSnake/internal/game"
	"lukechampine.com/blake3"
)

// Digest fingerprints the entity set of a snapshot: sorted point ids, then
// sorted static ids with their captured flags. Positions are left out since
// clients integrate points locally between snapshots.
func Digest(points []game.Point, statics []game.Static) string {
	pids := make([]game.EntityID, len(points))
	for i, p := range points {
		pids[i] = p.ID
	}
	slices.Sort(pids)

	sorted := slices.Clone(statics)
	slices.SortFunc(sorted, func(a, b game.Static) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	buf := make([]byte, 0, 1+8*len(pids)+1+9*len(sorted))
	buf = append(buf, 'p')
	for _, id := range pids {
		buf = binary.BigEndian.AppendUint64(buf, uint64(id))
	}
	buf = append(buf, 's')
	for _, s := range sorted {
		buf = binary.BigEndian.AppendUint64(buf, uint64(s.ID))
		if s.Captured {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	sum := blake3.Sum256(buf)
	return hex.EncodeToString(sum[:16])
}
