// Package icons рисует иконки трея для каждого состояния сессии.
package icons

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"aura/internal/session"
)

const size = 64

var palette = map[session.State]color.RGBA{
	session.StateIdle:      {128, 128, 128, 255}, // серый
	session.StateRecording: {220, 50, 50, 255},   // красный
	session.StateUploading: {230, 160, 50, 255},  // оранжевый
	session.StatePlaying:   {60, 150, 230, 255},  // синий
}

var (
	once  sync.Once
	cache map[session.State][]byte
)

// For возвращает PNG иконки для состояния.
func For(state session.State) []byte {
	once.Do(func() {
		cache = make(map[session.State][]byte, len(palette))
		for s, c := range palette {
			cache[s] = render(c)
		}
	})

	if data, ok := cache[state]; ok {
		return data
	}
	return cache[session.StateIdle]
}

// render рисует упрощённый микрофон: круг и ножку.
func render(c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	centerX, centerY := size/2, size/2
	const radius = 20

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-centerX, y-centerY
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}

	for y := centerY + radius; y < centerY+radius+10 && y < size; y++ {
		for x := centerX - 3; x <= centerX+3; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	// Кодирование в память не может завершиться ошибкой
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
