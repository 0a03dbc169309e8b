package input

import (
	"math"

	"github.com/annel0/genesys/internal/vec"
)

// rayEpsilon порог для почти параллельного луча и пересечения за началом луча
const rayEpsilon = 1e-6

// Ray луч в мировых координатах
type Ray struct {
	Origin    vec.Vec3Float
	Direction vec.Vec3Float
}

// At возвращает точку луча на расстоянии t
func (r Ray) At(t float64) vec.Vec3Float {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane возвращает расстояние до плоскости (point, normal).
// false, если луч параллелен плоскости или пересекает её позади начала.
func (r Ray) IntersectPlane(point, normal vec.Vec3Float) (float64, bool) {
	denom := normal.Dot(r.Direction)
	if math.Abs(denom) <= rayEpsilon {
		return 0, false
	}
	distance := point.Sub(r.Origin).Dot(normal) / denom
	if distance <= rayEpsilon {
		return 0, false
	}
	return distance, true
}

// Camera строит луч через точку экрана
type Camera interface {
	ViewportToWorld(screen vec.Vec2Float) (Ray, bool)
}

// Параметры камеры песочницы
const (
	DefaultViewportWidth  = 1400
	DefaultViewportHeight = 700
	// Фиксированная вертикаль 4 единицы при масштабе проекции 3
	DefaultOrthoHeight = 4 * 3
)

// DefaultEye положение камеры над сценой
var DefaultEye = vec.Vec3Float{X: 10, Y: 10, Z: 10}

// OrthoCamera ортографическая камера, смотрящая из Eye в Target
type OrthoCamera struct {
	Eye    vec.Vec3Float
	Target vec.Vec3Float
	// Высота видимой области в мировых единицах
	ViewHeight float64
	// Размер окна в пикселях
	Width, Height float64
}

// NewOrthoCamera создаёт камеру с параметрами песочницы
func NewOrthoCamera() *OrthoCamera {
	return &OrthoCamera{
		Eye:        DefaultEye,
		ViewHeight: DefaultOrthoHeight,
		Width:      DefaultViewportWidth,
		Height:     DefaultViewportHeight,
	}
}

// EyePosition положение камеры в мире
func (c *OrthoCamera) EyePosition() vec.Vec3Float {
	return c.Eye
}

// Basis возвращает направления взгляда, вправо и вверх камеры
func (c *OrthoCamera) Basis() (forward, right, up vec.Vec3Float) {
	forward = c.Target.Sub(c.Eye).Normalized()
	right = forward.Cross(vec.UnitY).Normalized()
	up = right.Cross(forward)
	return forward, right, up
}

// ViewportToWorld реализует Camera. Экранные координаты отсчитываются
// от левого верхнего угла окна.
func (c *OrthoCamera) ViewportToWorld(screen vec.Vec2Float) (Ray, bool) {
	if c.Width <= 0 || c.Height <= 0 || c.ViewHeight <= 0 {
		return Ray{}, false
	}
	forward, right, up := c.Basis()
	if forward.IsZero() || right.IsZero() {
		return Ray{}, false
	}

	ndcX := 2*screen.X/c.Width - 1
	ndcY := 1 - 2*screen.Y/c.Height

	halfH := c.ViewHeight / 2
	halfW := halfH * c.Width / c.Height

	origin := c.Eye.
		Add(right.Mul(ndcX * halfW)).
		Add(up.Mul(ndcY * halfH))
	return Ray{Origin: origin, Direction: forward}, true
}
