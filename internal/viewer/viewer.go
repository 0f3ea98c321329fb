// Package viewer shows filtered frames in a desktop window and lets the user pick the colour
// filter from a menu.
package viewer

import (
	"fmt"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"mxbridge/internal/filter"
	"mxbridge/internal/imaging"
	"mxbridge/internal/logger"
)

const (
	AppID     = "com.mxbridge.viewer"
	component = "Viewer"
)

// RenderFunc re-runs the pipeline with the given colour filter on the source frame.
type RenderFunc func(id filter.ID) (*imaging.Bitmap, filter.Centroids, error)

type Viewer struct {
	fyneApp fyne.App
	window  fyne.Window
	image   *canvas.Image
	status  *widget.Label
	render  RenderFunc
	logger  logger.Logger
	closed  atomic.Bool
}

func New(title string, render RenderFunc, log logger.Logger) *Viewer {
	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(title)

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(320, 240))

	status := widget.NewLabel("")

	v := &Viewer{
		fyneApp: fyneApp,
		window:  window,
		image:   img,
		status:  status,
		render:  render,
		logger:  log,
	}

	window.SetContent(container.NewBorder(nil, status, nil, nil, img))
	window.SetMainMenu(v.menu())
	window.Resize(fyne.NewSize(800, 600))
	window.CenterOnScreen()

	return v
}

func (v *Viewer) menu() *fyne.MainMenu {
	items := make([]*fyne.MenuItem, 0, len(filter.ColorFilterIDs()))
	for _, id := range filter.ColorFilterIDs() {
		id := id
		items = append(items, fyne.NewMenuItem(string(id), func() {
			v.Select(id)
		}))
	}

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() {
			v.fyneApp.Quit()
		}),
	)

	return fyne.NewMainMenu(fileMenu, fyne.NewMenu("Filter", items...))
}

// Select applies a filter and shows the result. Rendering runs off the UI goroutine.
func (v *Viewer) Select(id filter.ID) {
	v.status.SetText(fmt.Sprintf("applying %s...", id))

	go func() {
		bmp, centroids, err := v.render(id)
		fyne.Do(func() {
			if err != nil {
				v.logger.Error(component, err, map[string]interface{}{"filter": string(id)})
				v.status.SetText(fmt.Sprintf("%s failed", id))
				dialog.ShowError(err, v.window)
				return
			}
			v.Show(bmp, centroids, id)
		})
	}()
}

// Show displays a bitmap. Must be called on the UI goroutine.
func (v *Viewer) Show(bmp *imaging.Bitmap, centroids filter.Centroids, id filter.ID) {
	rgba, err := bmp.Image()
	if err != nil {
		v.logger.Error(component, err, map[string]interface{}{"filter": string(id)})
		v.status.SetText(fmt.Sprintf("%s: cannot display result", id))
		return
	}
	v.image.Image = rgba
	v.image.Refresh()
	v.status.SetText(fmt.Sprintf("filter: %s  objects: %d", id, len(centroids)))
}

// Run blocks until the window is closed.
func (v *Viewer) Run() {
	v.window.ShowAndRun()
	v.closed.Store(true)
}

// Shutdown closes the window from any goroutine.
func (v *Viewer) Shutdown() {
	if v.closed.Load() {
		return
	}
	fyne.Do(func() {
		v.fyneApp.Quit()
	})
}
