// Package graph defines the scene graph produced by evaluating a scene
// script. The graph is an immutable DAG of primitives, booleans, transforms,
// objects and groups that the tessellator turns into a placed scene.
package graph
