// Package service contains the business logic.
//
// It sits between the handler layer and the notification layer. It
// receives validated requests from the handler, turns them into a
// submission and hands that to the dispatcher.
package service
