// Package variables resolves ${source:path} placeholders in a composition
// document.
//
// Two sources are supported:
//
//	${sls:stage}   the stage of the current run
//	${env:NAME}    the environment variable NAME; anything after a further
//	               colon in the path is ignored
//
// References between components such as ${api.url} do not match the
// placeholder syntax and are left for the components to resolve.
package variables
