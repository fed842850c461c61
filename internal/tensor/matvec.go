package tensor

import (
	"runtime"
	"sync"
)

// MatVec computes dst = w * x where w is a matrix and x is a vector of
// length w.C. Large matrices are split into row ranges across GOMAXPROCS
// goroutines.
func MatVec(dst []float32, w *Mat, x []float32) {
	if w.R == 0 || w.C == 0 {
		return
	}
	if len(dst) < w.R || len(x) < w.C {
		panic("matvec shape mismatch")
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > w.R {
		workers = w.R
	}
	// Small matrices are not worth the goroutine overhead.
	if workers <= 1 || w.R*w.C < 1<<14 {
		matVecRange(dst, w, x, 0, w.R)
		return
	}

	chunk := (w.R + workers - 1) / workers
	var wg sync.WaitGroup
	for rs := 0; rs < w.R; rs += chunk {
		re := rs + chunk
		if re > w.R {
			re = w.R
		}
		wg.Add(1)
		go func(rs, re int) {
			defer wg.Done()
			matVecRange(dst, w, x, rs, re)
		}(rs, re)
	}
	wg.Wait()
}

func matVecRange(dst []float32, w *Mat, x []float32, rs, re int) {
	for r := rs; r < re; r++ {
		row := w.Data[r*w.Stride : r*w.Stride+w.C]
		var sum float32
		for c, v := range row {
			sum += v * x[c]
		}
		dst[r] = sum
	}
}

// AXPY computes y += a*x elementwise over the shorter of the two slices.
func AXPY(a float32, x, y []float32) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		y[i] += a * x[i]
	}
}

// Scale multiplies every element of x by a.
func Scale(a float32, x []float32) {
	for i := range x {
		x[i] *= a
	}
}
