package geometry_test

import (
	"fmt"

	"github.com/matzehuels/pylon/pkg/geometry"
)

func ExampleAdjustFoundation() {
	tower := geometry.Sections{
		Heights:     []float64{30, 30},
		Diameters:   []float64{6, 6, 5},
		Thicknesses: []float64{0.06, 0.05},
	}
	adj, err := geometry.AdjustFoundation(tower, geometry.Foundation{
		Elevation: -20,
		PileDepth: 10,
		Monopile:  true,
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(adj.Sections.Heights, adj.BaseElevation)
	// Output: [10 20 30] -30
}

func ExampleDiscretize() {
	tower := geometry.Sections{
		Heights:     []float64{30},
		Diameters:   []float64{6, 4},
		Thicknesses: []float64{0.05},
	}
	mesh, err := geometry.Discretize(tower, 0, geometry.MeshOptions{})
	if err != nil {
		panic(err)
	}
	fmt.Printf("z %.2f\n", mesh.Z)
	fmt.Printf("d %.2f\n", mesh.Diameter)
	fmt.Println("clearance", geometry.HeightConstraint(90, 0, mesh.Z))
	// Output:
	// z [0.00 10.00 20.00 30.00]
	// d [6.00 5.33 4.67 4.00]
	// clearance 60
}
