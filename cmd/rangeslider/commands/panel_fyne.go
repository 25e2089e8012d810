//go:build fyne

package commands

import "github.com/ingyamilmolinar/rangeslider/internal/panel"

var startPanel = panel.Run
