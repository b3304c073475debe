// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pose

import "gonum.org/v1/gonum/mat"

// UnknownVariance marks an axis the receiver does not observe. It is a
// convention, never derived from data, and is large enough that any fusion
// filter treats the axis as unconstrained.
const UnknownVariance = 99999.0

// Axis order of the 6x6 pose and twist covariances.
const (
	AxisX = iota
	AxisY
	AxisZ
	AxisRoll
	AxisPitch
	AxisYaw

	Dim = 6
)

// PoseCovariance builds the diagonal pose covariance from the horizontal
// standard deviations: x and y carry the measured variances, every other
// axis UnknownVariance.
func PoseCovariance(sigmaEasting, sigmaNorthing float64) *mat.SymDense {
	c := unknownCovariance()
	c.SetSym(AxisX, AxisX, sigmaEasting*sigmaEasting)
	c.SetSym(AxisY, AxisY, sigmaNorthing*sigmaNorthing)
	return c
}

// TwistCovariance is fully unknown: no velocity is derived from the fix.
func TwistCovariance() *mat.SymDense {
	return unknownCovariance()
}

func unknownCovariance() *mat.SymDense {
	c := mat.NewSymDense(Dim, nil)
	for i := 0; i < Dim; i++ {
		c.SetSym(i, i, UnknownVariance)
	}
	return c
}

// Flatten returns m row-major, the layout downstream consumers expect.
func Flatten(m mat.Symmetric) [Dim * Dim]float64 {
	var out [Dim * Dim]float64
	for i := 0; i < Dim; i++ {
		for j := 0; j < Dim; j++ {
			out[i*Dim+j] = m.At(i, j)
		}
	}
	return out
}

// Unflatten rebuilds a symmetric matrix from its row-major form. Only the
// upper triangle is read.
func Unflatten(v [Dim * Dim]float64) *mat.SymDense {
	data := make([]float64, len(v))
	copy(data, v[:])
	return mat.NewSymDense(Dim, data)
}

// IsDiagonal reports whether every off-diagonal entry of m is zero and every
// diagonal entry is non-negative.
func IsDiagonal(m mat.Symmetric) bool {
	n := m.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			if i == j && v < 0 {
				return false
			}
			if i != j && v != 0 {
				return false
			}
		}
	}
	return true
}
