package world

import "strings"

var asciiBricks = map[byte]BrickType{
	'#': BrickNormal,
	'G': BrickGoal,
	'+': BrickExtraBall,
	'*': BrickExplosive,
	'-': BrickStripeH,
	'|': BrickStripeV,
	'w': BrickWool,
	'S': BrickShieldGen,
	'C': BrickBallCage,
	'E': BrickEquipment,
	'L': BrickLog,
	'F': BrickFood,
}

// ParseMatrix creates a matrix from an ASCII map. Row i of lines is grid
// row i-rows/2; column j is grid column j-cols/2. Characters beyond the
// grid are ignored.
//
//	'.' = empty
//	'#' = normal brick with health hp
//	'1'-'9' = normal brick with health 10 * digit
//	'G' goal, '+' extraBall, '*' explosive, '-' stripeH, '|' stripeV,
//	'w' wool, 'S' shieldGen, 'C' ballCage, 'E' equipment, 'L' log, 'F' food
func ParseMatrix(cols, rows int, lines []string, hp float64) *Matrix {
	m := NewMatrix(cols, rows)
	for i, line := range lines {
		if i >= rows {
			break
		}
		for j := 0; j < len(line) && j < cols; j++ {
			ch := line[j]
			gx, gy := j-cols/2, i-rows/2
			switch {
			case ch >= '1' && ch <= '9':
				m.Place(NewBrick(BrickNormal, gx, gy, float64(ch-'0')*10))
			default:
				if t, ok := asciiBricks[ch]; ok {
					m.Place(NewBrick(t, gx, gy, hp))
				}
			}
		}
	}
	return m
}

// String renders the matrix in the ParseMatrix alphabet. Types without a
// symbol render as '?'.
func (m *Matrix) String() string {
	symbols := make(map[BrickType]byte, len(asciiBricks))
	for ch, t := range asciiBricks {
		symbols[t] = ch
	}
	var sb strings.Builder
	for gy := -m.halfRows; gy <= m.halfRows; gy++ {
		for gx := -m.halfCols; gx <= m.halfCols; gx++ {
			b := m.At(gx, gy)
			switch {
			case b == nil:
				sb.WriteByte('.')
			case symbols[b.Type] != 0:
				sb.WriteByte(symbols[b.Type])
			default:
				sb.WriteByte('?')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
