package screens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/xid"

	"instaclone/internal/client"
)

// RequestCapture identifies the camera result meant for the compose screen
const RequestCapture = 46

const (
	msgEmptyDescription = "Description cannot be empty"
	msgNoImage          = "There is no image!"
	msgNoPicture        = "Picture wasn't taken!"
	msgSaveFailed       = "Error while saving"
)

// Camera takes a picture into path. The result arrives later through OnCaptureResult.
type Camera interface {
	Capture(requestCode int, path string) error
}

type ComposeView interface {
	ShowPreview(path string)
	SetSubmitEnabled(enabled bool)
	ClearInputs()
}

type ComposeScreen struct {
	env      *Env
	lc       *Lifecycle
	session  *client.Session
	view     ComposeView
	camera   Camera
	photoDir string

	pending string
	photo   string
}

func NewComposeScreen(env *Env, session *client.Session, view ComposeView, camera Camera, photoDir string) *ComposeScreen {
	return &ComposeScreen{
		env:      env,
		lc:       NewLifecycle(env.context()),
		session:  session,
		view:     view,
		camera:   camera,
		photoDir: photoDir,
	}
}

func (c *ComposeScreen) Route() Route { return RouteCompose }
func (c *ComposeScreen) Start()       { c.view.SetSubmitEnabled(c.photo != "") }
func (c *ComposeScreen) Stop()        { c.lc.Stop() }

func (c *ComposeScreen) Session() *client.Session { return c.session }

// Photo is the path of the last captured picture, "" when there is none
func (c *ComposeScreen) Photo() string { return c.photo }

// PendingPath is where the camera was asked to write
func (c *ComposeScreen) PendingPath() string { return c.pending }

// LaunchCapture picks a fresh file path and hands control to the camera
func (c *ComposeScreen) LaunchCapture() error {
	if err := os.MkdirAll(c.photoDir, 0o755); err != nil {
		return fmt.Errorf("create photo dir: %w", err)
	}

	c.pending = filepath.Join(c.photoDir, xid.New().String()+".jpg")
	if err := c.camera.Capture(RequestCapture, c.pending); err != nil {
		c.env.logf("Issue with camera: %v", err)
		c.OnCaptureResult(RequestCapture, false)
		return err
	}
	return nil
}

// OnCaptureResult receives the camera outcome. Results for other request codes are ignored.
func (c *ComposeScreen) OnCaptureResult(requestCode int, ok bool) {
	if requestCode != RequestCapture {
		return
	}
	if !ok || c.pending == "" {
		c.env.Notifier.Notify(msgNoPicture)
		return
	}

	c.photo = c.pending
	c.view.ShowPreview(c.photo)
	c.view.SetSubmitEnabled(true)
}

// Submit saves a post with the current photo. Input problems are reported without contacting the store.
func (c *ComposeScreen) Submit(description string) {
	if description == "" {
		c.env.Notifier.Notify(msgEmptyDescription)
		return
	}
	if c.photo == "" {
		c.env.Notifier.Notify(msgNoImage)
		return
	}

	post := client.NewPost{Description: description, ImagePath: c.photo}
	session := c.session
	runAsync(c.lc, c.env, func(ctx context.Context) (*client.Post, error) {
		return c.env.Remote.SavePost(ctx, session, post)
	}, func(_ *client.Post, err error) {
		if err != nil {
			c.env.logf("Error while saving %v", err)
			c.env.Notifier.Notify(msgSaveFailed)
			return
		}

		c.pending = ""
		c.photo = ""
		c.view.ClearInputs()
		c.view.SetSubmitEnabled(false)
		c.env.Nav.Replace(Destination{Route: RouteFeed, Session: session})
	})
}
