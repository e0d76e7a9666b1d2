// Package sema turns a parsed PlayScript tree into an AnnotatedTree.
//
// Analysis runs six passes in order, each reading what the previous ones
// recorded and adding to the same AnnotatedTree:
//
//  1. scopes: scope tree, function and class declarations
//  2. decls: declared types of fields, parameters and results; inheritance
//  3. resolve: references, block-local declarations, expression types
//  4. typecheck: assignment and operand compatibility
//  5. validate: break/return placement, nested classes
//  6. closures: free variables of every non-method function
//
// Passes never stop at the first error; missing annotations are tolerated by
// every later pass.
package sema
