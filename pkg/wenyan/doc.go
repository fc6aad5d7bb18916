// Package wenyan is the front-end that feeds the macro engine: it finds
// macro declarations (或云「「…」」。蓋謂「「…」」。) in wenyan source, reads
// macro tables emitted by the JavaScript compiler, and drives the external
// wenyan compiler.
package wenyan
