// Package inventory provides a Go client for the platform's inventory API.
//
// The inventory holds managed objects: the platform's generic entity records
// covering devices, device groups, binaries and service-owned objects. It
// also exposes the binary repository for storing file content alongside its
// metadata record.
//
// # Managed objects
//
// Managed objects are schemaless beyond a small typed core. This client maps
// the core fields (id, name, type, owner, timestamps) onto struct fields and
// carries every other top-level field through unmodified as a raw fragment:
//
//	mo, err := client.GetManagedObject(ctx, "84112")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var hw struct {
//	    Model        string `json:"model"`
//	    SerialNumber string `json:"serialNumber"`
//	}
//	if err := mo.GetFragment("c8y_Hardware", &hw); err == nil {
//	    fmt.Printf("%s (%s)\n", hw.Model, hw.SerialNumber)
//	}
//
// Fragments survive a decode/encode round trip without loss, so objects read
// from the platform can be updated and written back safely.
//
// # Listing and paging
//
// ListManagedObjects returns a single page together with the platform's next
// link; ListAllManagedObjects follows next links until the collection is
// exhausted:
//
//	page, err := client.ListManagedObjects(ctx, &inventory.ListOptions{
//	    FragmentType: "c8y_IsDevice",
//	    PageSize:     500,
//	})
//
// # Binaries
//
// UploadBinary sends the metadata record and file content in one
// multipart/form-data request, matching the platform's
// POST /inventory/binaries contract. DownloadBinary streams the stored
// content; the caller closes the reader:
//
//	rc, contentType, err := client.DownloadBinary(ctx, id)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rc.Close()
//
// # Error handling
//
// The client uses github.com/cockroachdb/errors. Platform failures carry the
// HTTP status and, when the platform provides one, its error code and
// message. No retries happen at this level; transient failures surface to
// the caller unchanged.
package inventory
