package scoring

import "github.com/esgscope/esgscope/pkg/esg"

// GradeFromScore maps a score to one of nine letter grades. The bands were
// calibrated for the total and are applied unchanged to each pillar.
func GradeFromScore(score float64) esg.Grade {
	switch {
	case score >= 1500:
		return esg.GradeAAA
	case score >= 1400:
		return esg.GradeAA
	case score >= 1300:
		return esg.GradeA
	case score >= 1200:
		return esg.GradeBBB
	case score >= 1100:
		return esg.GradeBB
	case score >= 1000:
		return esg.GradeB
	case score >= 900:
		return esg.GradeCCC
	case score >= 800:
		return esg.GradeCC
	default:
		return esg.GradeC
	}
}

// LevelFromGrade buckets a grade. Anything that is not a letter grade,
// including N/A, maps to N/A.
func LevelFromGrade(g esg.Grade) esg.Level {
	switch g {
	case esg.GradeAAA, esg.GradeAA, esg.GradeA:
		return esg.LevelHigh
	case esg.GradeBBB, esg.GradeBB:
		return esg.LevelMedium
	case esg.GradeB, esg.GradeCCC, esg.GradeCC, esg.GradeC:
		return esg.LevelLow
	default:
		return esg.LevelNA
	}
}

func graded(score int) esg.PillarScore {
	g := GradeFromScore(float64(score))
	return esg.PillarScore{Score: score, Grade: g, Level: LevelFromGrade(g)}
}

func degraded() esg.PillarScore {
	return esg.PillarScore{Score: 0, Grade: esg.GradeNA, Level: esg.LevelNA}
}
