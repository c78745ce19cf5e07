package forecast

// Least-squares polynomial fit via the normal equations. Degrees here are 1
// or 2, so the systems are at most 3x3 and direct Gaussian elimination with
// partial pivoting is plenty.

func polyfit(xs, ys []float64, degree int) []float64 {
	size := degree + 1

	// Normal matrix: A[i][j] = sum(x^(i+j)), b[i] = sum(y * x^i).
	matrix := make([][]float64, size)
	vector := make([]float64, size)
	for i := 0; i < size; i++ {
		matrix[i] = make([]float64, size)
	}
	for k := range xs {
		xPower := 1.0
		powers := make([]float64, 2*size-1)
		for p := range powers {
			powers[p] = xPower
			xPower *= xs[k]
		}
		for i := 0; i < size; i++ {
			vector[i] += ys[k] * powers[i]
			for j := 0; j < size; j++ {
				matrix[i][j] += powers[i+j]
			}
		}
	}

	return solve(matrix, vector)
}

func solve(matrix [][]float64, vector []float64) []float64 {
	size := len(vector)
	for col := 0; col < size; col++ {
		pivot := col
		for row := col + 1; row < size; row++ {
			if abs(matrix[row][col]) > abs(matrix[pivot][col]) {
				pivot = row
			}
		}
		matrix[col], matrix[pivot] = matrix[pivot], matrix[col]
		vector[col], vector[pivot] = vector[pivot], vector[col]

		if matrix[col][col] == 0 {
			continue
		}
		for row := col + 1; row < size; row++ {
			factor := matrix[row][col] / matrix[col][col]
			for j := col; j < size; j++ {
				matrix[row][j] -= factor * matrix[col][j]
			}
			vector[row] -= factor * vector[col]
		}
	}

	coefficients := make([]float64, size)
	for row := size - 1; row >= 0; row-- {
		sum := vector[row]
		for j := row + 1; j < size; j++ {
			sum -= matrix[row][j] * coefficients[j]
		}
		if matrix[row][row] != 0 {
			coefficients[row] = sum / matrix[row][row]
		}
	}
	return coefficients
}

func polyval(coefficients []float64, x float64) float64 {
	var result float64
	xPower := 1.0
	for _, coefficient := range coefficients {
		result += coefficient * xPower
		xPower *= x
	}
	return result
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
