package handlers

import (
	"net/http"

	"brainifi/internal/db"
	"brainifi/internal/study"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// ModeProgress is how far the user has got in one study mode.
type ModeProgress struct {
	Mode         study.Mode `json:"mode"`
	Label        string     `json:"label"`
	Attempted    int64      `json:"attempted"`
	Completed    int64      `json:"completed"`
	TotalScore   int64      `json:"total_score"`
	AverageScore float64    `json:"average_score"`
}

// HandleProgress reports per-mode progress. Modes never attempted are zeros.
func (h *Handler) HandleProgress(c *gin.Context) {
	profile, ok := h.currentUser(c)
	if !ok {
		return
	}
	rows, err := h.Store.GetModeProgress(c.Request.Context(), profile.DatabaseID)
	if err != nil {
		h.handleErrorAndNotify(c, profile.DatabaseID, http.StatusInternalServerError, "Get Progress", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": buildProgress(rows)})
}

func buildProgress(rows []db.GetModeProgressRow) []ModeProgress {
	byMode := lo.KeyBy(rows, func(r db.GetModeProgressRow) study.Mode { return study.Mode(r.Mode) })
	return lo.Map(study.AllModes, func(mode study.Mode, _ int) ModeProgress {
		row := byMode[mode]
		p := ModeProgress{
			Mode:       mode,
			Label:      mode.Label(),
			Attempted:  row.Attempted,
			Completed:  row.Completed,
			TotalScore: row.TotalScore,
		}
		if row.Attempted > 0 {
			p.AverageScore = float64(row.TotalScore) / float64(row.Attempted)
		}
		return p
	})
}
