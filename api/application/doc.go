// Package application provides access to the platform's application
// registry: listing, registering and updating applications, and managing
// their binary attachments.
//
// The application list changes rarely, so ListApplications memoizes its
// result. Mutating calls invalidate the cache automatically; callers that
// know the registry changed out of band can call InvalidateCache directly.
package application
