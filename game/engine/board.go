package engine

const (
	// One in valueOdds cells receives a point value when a board is built.
	valueOdds = 4
	// Valued cells hold 1..maxCellValue points.
	maxCellValue = 5
)

// board is the grid of point values. It knows nothing about players; the
// engine owns occupancy.
type board struct {
	numRows int
	numCols int
	values  [][]int
}

// newBoard allocates a numRows x numCols grid and scatters point values onto
// it. Each cell independently receives a value with probability 1/valueOdds;
// a valued cell holds 1 + source.Intn(maxCellValue) points. The scan is
// row-major, so a fixed source yields the same layout every time.
func newBoard(numRows, numCols int, source RandomSource) *board {
	values := make([][]int, numRows)
	for r := range values {
		values[r] = make([]int, numCols)
		for c := range values[r] {
			if source.Intn(valueOdds) == 0 {
				values[r][c] = 1 + source.Intn(maxCellValue)
			}
		}
	}
	return &board{numRows: numRows, numCols: numCols, values: values}
}

// inBounds reports whether (row, col) lies on the grid.
func (b *board) inBounds(row, col int) bool {
	return row >= 0 && row < b.numRows && col >= 0 && col < b.numCols
}

// valueAt returns the current point value of a cell, 0 for empty or
// out-of-bounds cells.
func (b *board) valueAt(row, col int) int {
	if !b.inBounds(row, col) {
		return 0
	}
	return b.values[row][col]
}

// consumeValueAt zeroes and returns the value at a cell. After the first
// call for a cell it returns 0, so a value can never be credited twice.
func (b *board) consumeValueAt(row, col int) int {
	if !b.inBounds(row, col) {
		return 0
	}
	v := b.values[row][col]
	b.values[row][col] = 0
	return v
}
