package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownScene is returned for a builtin scene name that does not exist
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a builtin scene
type SceneInfo struct {
	Name        string
	Description string
}

type builtinScene struct {
	info   SceneInfo
	create func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{SceneInfo{"default", "Mirror, glass and glossy spheres on a checkered floor"}, wrap(NewDefaultScene)},
	{SceneInfo{"cornell", "Cornell box with two rotated blocks and a soft ceiling light"}, wrap(NewCornellScene)},
	{SceneInfo{"spheregrid", "10x10 grid of glossy spheres with varying roughness"}, wrap(NewSphereGridScene)},
	{SceneInfo{"textures", "Texture mapping on every primitive kind"}, wrap(NewTextureTestScene)},
	{SceneInfo{"mesh", "Triangle meshes with transforms"}, NewTriangleMeshScene},
}

func wrap(create func() *Scene) func() (*Scene, error) {
	return func() (*Scene, error) {
		return create(), nil
	}
}

// ListBuiltinScenes returns the builtin scenes in display order
func ListBuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, builtin := range builtinScenes {
		infos[i] = builtin.info
	}
	return infos
}

// NewBuiltinScene creates a builtin scene by name
func NewBuiltinScene(name string) (*Scene, error) {
	for _, builtin := range builtinScenes {
		if builtin.info.Name == name {
			return builtin.create()
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}
