// Package analysis summarises finished runs.
//
//   - [PowerSpectrum]: frequency content of a sampled series, such as the
//     kinetic energy of a stored run
//   - [Speeds]: speed distribution of the particles in a pool
//
// A gas that has thermalised shows a broad speed histogram even when every
// particle started at a similar speed:
//
//	s := analysis.Speeds(w.Pool(), 20)
//	fmt.Println(s.Mean, s.StdDev)
package analysis
