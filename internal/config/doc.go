// Package config locates, parses and validates the composition document of a
// serverless-compose project.
//
// # Discovery
//
// The document is looked up in the working directory, first as
// serverless-compose.yml and then as serverless-compose.yaml. A missing
// document is fatal.
//
// # Shape
//
// A composition document declares its components under "services":
//
//	services:
//	  resources:
//	    path: resources
//	  api:
//	    path: api
//	    dependsOn: resources
//	    params:
//	      tableName: ${resources.tableName}
//
// A document that carries provider.name is a single-service framework
// configuration and is rejected.
//
// # Components
//
// Components builds the list of components from the resolved document. Each
// path must point at an existing directory. Dependencies come from dependsOn
// and from ${component.output} references inside params.
package config
