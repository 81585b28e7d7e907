package tui

import "time"

const (
	titleHeight     = 2
	tabBarHeight    = 1
	statusBarHeight = 1
	chromeHeight    = titleHeight + tabBarHeight + statusBarHeight + 1
	panelPadding    = 2
	borderPadding   = 6

	minColumnWidth = 6
	maxColumnWidth = 40

	schemaListRatio = 0.35 // share of width taken by the type list
	modalRatio      = 0.8

	// runTimeout bounds one Run so a stuck executor never wedges the UI
	runTimeout = 30 * time.Second
)
