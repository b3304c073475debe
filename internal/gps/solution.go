// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

// SolutionStatus is the receiver's solution status tag (first payload field).
type SolutionStatus string

// SolutionType is the receiver's position type tag (second payload field).
type SolutionType string

// Status tags. Only SolComputed is accepted; the rest are kept so logs
// can name what the receiver reported.
const (
	SolComputed      SolutionStatus = "SOL_COMPUTED"
	InsufficientObs  SolutionStatus = "INSUFFICIENT_OBS"
	NoConvergence    SolutionStatus = "NO_CONVERGENCE"
	Singularity      SolutionStatus = "SINGULARITY"
	CovTrace         SolutionStatus = "COV_TRACE"
	TestDist         SolutionStatus = "TEST_DIST"
	ColdStart        SolutionStatus = "COLD_START"
	VHLimit          SolutionStatus = "V_H_LIMIT"
	Variance         SolutionStatus = "VARIANCE"
	Residuals        SolutionStatus = "RESIDUALS"
	IntegrityWarning SolutionStatus = "INTEGRITY_WARNING"
	Pending          SolutionStatus = "PENDING"
	InvalidFix       SolutionStatus = "INVALID_FIX"
	Unauthorized     SolutionStatus = "UNAUTHORIZED"
	InvalidRate      SolutionStatus = "INVALID_RATE"
)

// Position type tags.
const (
	NoSolution    SolutionType = "NONE"
	FixedPos      SolutionType = "FIXEDPOS"
	Single        SolutionType = "SINGLE"
	PSRDiff       SolutionType = "PSRDIFF"
	WAAS          SolutionType = "WAAS"
	OmniSTAR      SolutionType = "OMNISTAR"
	OmniSTARHP    SolutionType = "OMNISTAR_HP"
	OmniSTARXP    SolutionType = "OMNISTAR_XP"
	L1Float       SolutionType = "L1_FLOAT"
	NarrowFloat   SolutionType = "NARROW_FLOAT"
	L1Int         SolutionType = "L1_INT"
	NarrowInt     SolutionType = "NARROW_INT"
	PPPConverging SolutionType = "PPP_CONVERGING"
	PPP           SolutionType = "PPP"
)
