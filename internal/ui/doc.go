// Package ui implements an interactive shopping-list checklist using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [LoadingView] : The list is being generated
//  2. [ChecklistView] : Browse aggregated items and tick them off
//  3. [SkippedView] : Ingredients whose quantity could not be summed
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Generation runs as a [tea.Cmd] so the terminal stays responsive, and reloading keeps the checked state of lines that survive.
//
// Keyboard navigation uses vim-style bindings (j/k, x/space, s, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
