// @title           bananaguava API
// @version         1.0
// @description     GitHub-Issues-backed prompt gallery: cached prompt listings, variable templating, vocabulary growth, and anonymous submissions.
// @BasePath        /api/v1
package api
