// Package viz provides the terminal live view of a running simulation.
//
// [Model] is a Bubble Tea model that advances an [fdtd.Simulator] on every
// tick and renders the electric field with asciigraph next to a lipgloss
// stats panel.
//
//	m, err := viz.NewModel(cfg, 2)
//	if err != nil {
//	    return err
//	}
//	_, err = tea.NewProgram(m).Run()
package viz
