package dfa

import (
	"encoding/binary"
	"slices"

	"github.com/twmb/murmur3"
)

// Compressed is the transition table with duplicate columns and rows
// removed, the form in which generated scanners store it.
//
// The target of state s on class c is Rows[RowMap[s]][ColMap[c]].
type Compressed struct {
	// ColMap maps each symbol class to a column of Rows.
	ColMap []int
	// RowMap maps each DFA state to a row of Rows.
	RowMap []int
	// Rows holds the distinct rows over the distinct columns.
	Rows [][]int32
}

// Next returns the target of state on class, or F.
func (c *Compressed) Next(state, class int) int {
	return int(c.Rows[c.RowMap[state]][c.ColMap[class]])
}

// Reduce removes duplicate columns and then duplicate rows from t.
// Distinct columns and rows keep the order of their first occurrence.
func Reduce(t *Table) *Compressed {
	cols := make([][]int32, t.Columns())
	for c := range cols {
		col := make([]int32, t.Len())
		for s := range t.Rows {
			col[s] = t.Rows[s].Next[c]
		}
		cols[c] = col
	}
	colMap, uniqCols := dedupe(cols)

	rows := make([][]int32, t.Len())
	for s := range t.Rows {
		row := make([]int32, len(uniqCols))
		for i, col := range uniqCols {
			row[i] = col[s]
		}
		rows[s] = row
	}
	rowMap, uniqRows := dedupe(rows)

	tracer().Debugf("reduced %dx%d table to %dx%d", t.Len(), t.Columns(), len(uniqRows), len(uniqCols))
	return &Compressed{
		ColMap: colMap,
		RowMap: rowMap,
		Rows:   uniqRows,
	}
}

// dedupe maps each vector to the index of the first equal vector in the
// returned list of distinct vectors.
func dedupe(vecs [][]int32) ([]int, [][]int32) {
	index := make([]int, len(vecs))
	byKey := make(map[uint64][]int)
	var uniq [][]int32
	buf := make([]byte, 0, 64)

	for i, v := range vecs {
		buf = buf[:0]
		for _, x := range v {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(x))
		}
		key := murmur3.Sum64(buf)

		found := -1
		for _, u := range byKey[key] {
			if slices.Equal(uniq[u], v) {
				found = u
				break
			}
		}
		if found < 0 {
			found = len(uniq)
			uniq = append(uniq, v)
			byKey[key] = append(byKey[key], found)
		}
		index[i] = found
	}
	return index, uniq
}
