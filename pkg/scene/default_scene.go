package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// coverSceneSeed fixes the random sphere layout of the default scene
const coverSceneSeed = 1

// applyOverrides merges the first override, if any, into config
func applyOverrides(config renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(config, overrides[0])
	}
	return config
}

// NewTwoSpheresScene creates a diffuse sphere resting on a large diffuse ground sphere
func NewTwoSpheresScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := applyOverrides(renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		FocusDistance:   1,
	}, cameraOverrides)

	s := New("two-spheres", cameraConfig)
	s.Description = "Diffuse sphere on a diffuse ground sphere"

	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, gray)
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, gray)

	return s
}

// NewMaterialsScene creates one sphere of each material beside each other
func NewMaterialsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := applyOverrides(renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            20,
		LookFrom:        core.NewVec3(-2, 2, 1),
		LookAt:          core.NewVec3(0, 0, -1),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    10,
		FocusDistance:   3.4,
	}, cameraOverrides)

	s := New("materials", cameraConfig)
	s.Description = "Diffuse, hollow glass, fuzzed metal and emitting spheres"

	// Create materials
	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.50)
	bubble := material.NewDielectric(1.00 / 1.50) // air inside glass
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	lamp := material.NewEmitter(core.NewVec3(1.0, 0.9, 0.7), 4)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, center)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.4, bubble)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)
	s.AddSphere(core.NewVec3(0, 0.9, -1.2), 0.15, lamp)

	return s
}

// NewDefaultScene creates the random-spheres cover scene: three large feature spheres
// surrounded by a field of small spheres whose materials are drawn with a fixed seed
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := applyOverrides(renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            20,
		LookFrom:        core.NewVec3(13, 2, 3),
		LookAt:          core.NewVec3(0, 0, 0),
		Up:              core.NewVec3(0, 1, 0),
		DefocusAngle:    0.6,
		FocusDistance:   10,
	}, cameraOverrides)

	s := New("default", cameraConfig)
	s.Description = "Field of random small spheres around three large ones"

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.Add(randomSphereField(core.NewSeededSampler(coverSceneSeed)))

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return s
}

// randomSphereField places small spheres on a jittered 22x22 grid, skipping any that
// would overlap the large metal sphere
func randomSphereField(sampler core.Sampler) *geometry.HittableList {
	field := geometry.NewHittableList()
	clearance := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(
				float64(a)+0.9*sampler.Get1D(),
				0.2,
				float64(b)+0.9*sampler.Get1D(),
			)

			if center.Subtract(clearance).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case chooseMat < 0.8:
				// diffuse
				albedo := core.RandomVec3(sampler).MultiplyVec(core.RandomVec3(sampler))
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				// metal
				albedo := core.RandomVec3InRange(sampler, 0.5, 1)
				fuzz := core.RandomInRange(sampler, 0, 0.5)
				mat = material.NewMetal(albedo, fuzz)
			default:
				// glass
				mat = material.NewDielectric(1.5)
			}
			field.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	return field
}

// NewLightsScene creates a scene lit mostly by emitting spheres
func NewLightsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := applyOverrides(renderer.CameraConfig{
		AspectRatio:     16.0 / 9.0,
		ImageWidth:      400,
		SamplesPerPixel: 200,
		MaxDepth:        50,
		VFov:            40,
		LookFrom:        core.NewVec3(0, 0.75, 2), // Camera higher and farther back
		LookAt:          core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:              core.NewVec3(0, 1, 0),
		FocusDistance:   3,
	}, cameraOverrides)

	s := New("lights", cameraConfig)
	s.Description = "Glass and metal spheres under warm and cool sphere lights"

	// Create materials
	lambertianGreen := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.NewDielectric(1.5)

	s.AddSphere(core.NewVec3(0, -1000, -1), 1000, lambertianGreen)
	s.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed)
	s.AddSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver)
	s.AddSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold)
	s.AddSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, materialGlass)

	s.AddSphereLight(core.NewVec3(-1.5, 2, 0), 0.4, core.NewVec3(15.0, 14.0, 13.0))
	s.AddSphereLight(core.NewVec3(1.5, 1.5, -2.5), 0.3, core.NewVec3(4.0, 6.0, 12.0))

	return s
}
