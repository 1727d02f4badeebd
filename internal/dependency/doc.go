// Package dependency provides a directed acyclic graph (DAG) of component
// dependencies.
//
// Global commands use it to decide the order in which components run.
// Levels groups components so that each one only depends on components of
// earlier levels; the components of one level can run concurrently:
//
//	g := dependency.New()
//	g.AddNode(dependency.Node{ID: "resources"})
//	g.AddNode(dependency.Node{ID: "api", DependsOn: []dependency.NodeID{"resources"}})
//	g.AddNode(dependency.Node{ID: "worker", DependsOn: []dependency.NodeID{"resources"}})
//
//	levels, err := g.Levels()
//	// [[resources] [api worker]]
//
// Removal walks the levels backwards so dependents go first.
package dependency
