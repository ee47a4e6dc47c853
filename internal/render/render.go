// Package render draws pose overlays and exercise feedback onto frames.
package render

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/pose"
)

// Overlay colors.
var (
	ColorGood     = color.RGBA{0, 255, 0, 0}
	ColorBad      = color.RGBA{255, 0, 0, 0}
	ColorWarning  = color.RGBA{255, 165, 0, 0}
	ColorText     = color.RGBA{255, 255, 255, 0}
	ColorSkeleton = color.RGBA{245, 117, 66, 0}
	ColorJoint    = color.RGBA{245, 66, 230, 0}
	ColorBackdrop = color.RGBA{0, 0, 0, 0}
)

const (
	font          = gocv.FontHersheySimplex
	hudWidth      = 280
	hudHeight     = 120
	hudAlpha      = 0.6
	lineThickness = 4
)

// NoticeAdjust is drawn when no usable pose was found.
const NoticeAdjust = "Adjust camera or position"

// ToneColor maps a hint tone to its overlay color.
func ToneColor(t exercise.Tone) color.RGBA {
	switch t {
	case exercise.Bad:
		return ColorBad
	case exercise.Warning:
		return ColorWarning
	default:
		return ColorGood
	}
}

// Skeleton draws the limbs and joints of a pose that meet the visibility threshold.
func Skeleton(img *gocv.Mat, p *pose.Pose, minVisibility float64) {
	w, h := img.Cols(), img.Rows()

	for _, limb := range pose.Skeleton {
		if !p.Visible(limb[0], minVisibility) || !p.Visible(limb[1], minVisibility) {
			continue
		}
		gocv.Line(img, p.Pixel(limb[0], w, h), p.Pixel(limb[1], w, h), ColorSkeleton, 2)
	}

	for j := pose.Joint(0); j < pose.NumJoints; j++ {
		if !p.Visible(j, minVisibility) {
			continue
		}
		gocv.Circle(img, p.Pixel(j, w, h), 4, ColorJoint, -1)
	}
}

// Hints draws an exercise's colored segments, markers and angle labels.
func Hints(img *gocv.Mat, p *pose.Pose, hints exercise.Hints) {
	w, h := img.Cols(), img.Rows()

	for _, s := range hints.Segments {
		gocv.Line(img, p.Pixel(s.From, w, h), p.Pixel(s.To, w, h), ToneColor(s.Tone), lineThickness)
	}
	for _, m := range hints.Markers {
		gocv.Circle(img, p.Pixel(m.At, w, h), m.Radius, ToneColor(m.Tone), -1)
	}
	for _, l := range hints.Labels {
		at := p.Pixel(l.At, w, h).Add(image.Pt(20, 0))
		gocv.PutTextWithParams(img, l.Text, at, font, 0.7, ColorText, 2, gocv.LineAA, false)
	}
}

// HUD draws the translucent rep counter box in the top-left corner.
func HUD(img *gocv.Mat, reps int, phase exercise.Phase) {
	overlay := img.Clone()
	defer overlay.Close()

	box := image.Rect(0, 0, hudWidth, hudHeight).Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	gocv.Rectangle(&overlay, box, ColorBackdrop, -1)
	gocv.AddWeighted(overlay, hudAlpha, *img, 1-hudAlpha, 0, img)

	gocv.PutText(img, "REPS: "+strconv.Itoa(reps), image.Pt(10, 40), font, 1, ColorText, 2)
	gocv.PutText(img, "STATE: "+strings.ToUpper(string(phase)), image.Pt(10, 90), font, 1, ColorText, 2)
}

// Banner draws feedback text centered near the bottom of the frame.
func Banner(img *gocv.Mat, text string) {
	if text == "" {
		return
	}
	size := gocv.GetTextSize(text, font, 1, 2)
	x := (img.Cols() - size.X) / 2
	if x < 10 {
		x = 10
	}
	gocv.PutText(img, text, image.Pt(x, img.Rows()-30), font, 1, ColorText, 2)
}

// Notice draws a warning line centered in the frame.
func Notice(img *gocv.Mat, text string) {
	size := gocv.GetTextSize(text, font, 0.8, 2)
	at := image.Pt((img.Cols()-size.X)/2, img.Rows()/2)
	gocv.PutText(img, text, at, font, 0.8, ColorWarning, 2)
}
