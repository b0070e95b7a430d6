package httpserver

import (
	"net/http"

	customersvc "crm-backoffice/internal/service/customer"
	"github.com/gin-gonic/gin"
)

func (h *api) listCustomersFlat(c *gin.Context) {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	rows, err := h.deps.CustomerSvc.FlatExport(ctx)
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *api) getCustomer(c *gin.Context) {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.GetByID(ctx, c.Param("customerId"))
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *api) createCustomer(c *gin.Context) {
	var in customersvc.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.Create(ctx, in)
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

type updateCustomerRequest struct {
	Type string `json:"type"`
	// Anything else the client sends, intNr included, is ignored.
}

func (h *api) updateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.UpdateType(ctx, c.Param("customerId"), req.Type)
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *api) deleteCustomer(c *gin.Context) {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	if err := h.deps.CustomerSvc.Delete(ctx, c.Param("customerId")); err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Customer deleted"})
}

func (h *api) addAddress(c *gin.Context) {
	var in customersvc.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.AddAddress(ctx, c.Param("customerId"), in)
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Address added", "customer": customer})
}

func (h *api) updateAddress(c *gin.Context) {
	var patch customersvc.AddressPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.UpdateAddress(ctx, c.Param("customerId"), c.Param("addressId"), patch)
	if err != nil {
		h.respondError(c, err, "Customer or address not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Address updated", "customer": customer})
}

func (h *api) deleteAddress(c *gin.Context) {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.DeleteAddress(ctx, c.Param("customerId"), c.Param("addressId"))
	if err != nil {
		h.respondError(c, err, "Customer or address not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Address deleted", "customer": customer})
}

func (h *api) addContactPerson(c *gin.Context) {
	var in customersvc.ContactPersonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.AddContactPerson(ctx, c.Param("customerId"), in)
	if err != nil {
		h.respondError(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Contact person added", "customer": customer})
}

func (h *api) updateContactPerson(c *gin.Context) {
	var patch customersvc.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.UpdateContactPerson(ctx, c.Param("customerId"), c.Param("contactId"), patch)
	if err != nil {
		h.respondError(c, err, "Customer or contact person not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Contact person updated", "customer": customer})
}

func (h *api) deleteContactPerson(c *gin.Context) {
	ctx, cancel := h.storageCtx(c)
	defer cancel()

	customer, err := h.deps.CustomerSvc.DeleteContactPerson(ctx, c.Param("customerId"), c.Param("contactId"))
	if err != nil {
		h.respondError(c, err, "Customer or contact person not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Contact person deleted", "customer": customer})
}
