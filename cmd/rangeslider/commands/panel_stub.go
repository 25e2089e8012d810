//go:build !fyne

package commands

import (
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
	"github.com/ingyamilmolinar/rangeslider/internal/ui"
)

func startPanel(_ *ui.Game, logger *game_log.Logger) {
	logger.Infof("[CLI] --panel needs a build with -tags fyne; ignoring")
}
