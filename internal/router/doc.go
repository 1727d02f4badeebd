// Package router turns command line tokens into the command a run targets.
//
// Positional tokens are joined with ":" into a command string. The target
// component comes from --service when given, otherwise from the part of the
// command before the first ":". A command without a component is global and
// runs against every component of the composition document:
//
//	serverless-compose deploy                  global deploy
//	serverless-compose api deploy              deploy of component "api"
//	serverless-compose deploy --service=api    same as above
//	serverless-compose api:logs --tail         logs of component "api"
package router
